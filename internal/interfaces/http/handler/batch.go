package handler

import (
	"github.com/gin-gonic/gin"
	invapp "github.com/imaps/backend/internal/application/inventory"
	"github.com/imaps/backend/internal/domain/inventory"
)

// BatchHandler handles batch-related API endpoints. The material kind is
// taken from the path, so one handler serves both ingredient and
// packaging batches.
type BatchHandler struct {
	BaseHandler
	batches *invapp.BatchService
	admin   gin.HandlerFunc
}

// NewBatchHandler creates a new BatchHandler. The admin middleware guards
// the destructive endpoints.
func NewBatchHandler(batches *invapp.BatchService, admin gin.HandlerFunc) *BatchHandler {
	return &BatchHandler{
		batches: batches,
		admin:   admin,
	}
}

// RegisterRoutes registers batch routes on the given router group
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches/:kind")
	{
		batches.POST("", h.Create)
		batches.GET("", h.List)
		batches.GET("/:code", h.GetByCode)
		batches.PUT("/:code", h.admin, h.Update)
		batches.DELETE("/:code", h.admin, h.Delete)
	}
}

func (h *BatchHandler) kind(c *gin.Context) (inventory.MaterialKind, bool) {
	kind, err := invapp.ParseKind(c.Param("kind"))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return kind, true
}

// Create records a delivered batch
func (h *BatchHandler) Create(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req invapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batches.Create(c.Request.Context(), kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// List lists active batches, newest delivery first
func (h *BatchHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var filter invapp.BatchListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.batches.List(c.Request.Context(), kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByCode fetches one batch by its generated code
func (h *BatchHandler) GetByCode(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	batch, err := h.batches.GetByCode(c.Request.Context(), kind, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Update applies a partial update to a batch
func (h *BatchHandler) Update(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req invapp.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batches.Update(c.Request.Context(), kind, c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Delete soft-deletes a batch together with the usage records drawn from it
func (h *BatchHandler) Delete(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	if err := h.batches.Delete(c.Request.Context(), kind, c.Param("code")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
