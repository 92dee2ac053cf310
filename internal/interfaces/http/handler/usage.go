package handler

import (
	"github.com/gin-gonic/gin"
	invapp "github.com/imaps/backend/internal/application/inventory"
	"github.com/imaps/backend/internal/domain/inventory"
)

// UsageHandler handles usage-record API endpoints
type UsageHandler struct {
	BaseHandler
	usages *invapp.UsageService
	admin  gin.HandlerFunc
}

// NewUsageHandler creates a new UsageHandler. The admin middleware guards
// the destructive endpoints.
func NewUsageHandler(usages *invapp.UsageService, admin gin.HandlerFunc) *UsageHandler {
	return &UsageHandler{
		usages: usages,
		admin:  admin,
	}
}

// RegisterRoutes registers usage-record routes on the given router group
func (h *UsageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	usages := rg.Group("/usages/:kind")
	{
		usages.POST("", h.Record)
		usages.GET("", h.List)
		usages.GET("/:code", h.GetByCode)
		usages.PUT("/:code", h.admin, h.Update)
		usages.DELETE("/:code", h.admin, h.Delete)
	}
}

func (h *UsageHandler) kind(c *gin.Context) (inventory.MaterialKind, bool) {
	kind, err := invapp.ParseKind(c.Param("kind"))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return kind, true
}

// Record consumes stock against a batch, cascading to older batches of
// the same material when the named batch cannot cover the request
func (h *UsageHandler) Record(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req invapp.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.usages.Record(c.Request.Context(), kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List lists active usage records, newest usage date first
func (h *UsageHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var filter invapp.UsageListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.usages.List(c.Request.Context(), kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByCode fetches one usage record by its generated code
func (h *UsageHandler) GetByCode(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	usage, err := h.usages.GetByCode(c.Request.Context(), kind, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, usage)
}

// Update applies a partial update to a usage record. The record's own
// batch absorbs any quantity delta; the edit never cascades.
func (h *UsageHandler) Update(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req invapp.UpdateUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	usage, err := h.usages.Update(c.Request.Context(), kind, c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, usage)
}

// Delete soft-deletes a usage record, returning its quantity to the batch
func (h *UsageHandler) Delete(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	if err := h.usages.Delete(c.Request.Context(), kind, c.Param("code")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
