package handler

import (
	"github.com/gin-gonic/gin"
	invapp "github.com/imaps/backend/internal/application/inventory"
	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ReportHandler handles the read-only reporting endpoints
type ReportHandler struct {
	BaseHandler
	reports *invapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *invapp.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers reporting routes on the given router group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.Summary)
		reports.GET("/available", h.AvailableQuantity)
	}
}

// Summary builds the combined consumption and expiry report for an
// inclusive date window
func (h *ReportHandler) Summary(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		h.BadRequest(c, "start and end query parameters are required")
		return
	}

	report, err := h.reports.Summary(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// availableQuantityResponse pairs the queried material with the stock a
// request of the given category could draw from
type availableQuantityResponse struct {
	Kind          string          `json:"kind"`
	MaterialName  string          `json:"material_name"`
	ContainerSize string          `json:"container_size,omitempty"`
	UseCategory   string          `json:"use_category"`
	Available     decimal.Decimal `json:"available"`
}

// AvailableQuantity reports the remaining stock a request could draw from
func (h *ReportHandler) AvailableQuantity(c *gin.Context) {
	kind, err := invapp.ParseKind(c.Query("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	materialName := c.Query("material_name")
	containerSize := c.Query("container_size")
	category := inventory.UseCategory(c.Query("use_category"))

	available, err := h.reports.AvailableQuantity(c.Request.Context(), kind, materialName, containerSize, category)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, availableQuantityResponse{
		Kind:          kind.String(),
		MaterialName:  materialName,
		ContainerSize: containerSize,
		UseCategory:   category.String(),
		Available:     available,
	})
}
