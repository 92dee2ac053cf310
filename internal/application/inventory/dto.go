package inventory

import (
	"time"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ParseKind maps the URL path segment to a material kind
func ParseKind(value string) (inventory.MaterialKind, error) {
	switch value {
	case "ingredients":
		return inventory.MaterialKindIngredient, nil
	case "packaging":
		return inventory.MaterialKindPackaging, nil
	}
	return "", shared.NewValidationError(map[string]string{
		"kind": "kind must be ingredients or packaging",
	})
}

// ParseDate parses a calendar date in the wire format, anchored at UTC midnight
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// CreateBatchRequest represents a request to record a delivered batch.
// ContainerSize is required for packaging, ExpirationDate for ingredients.
type CreateBatchRequest struct {
	SupplierCode   string          `json:"supplier_code" binding:"required"`
	MaterialName   string          `json:"material_name" binding:"required"`
	ContainerSize  string          `json:"container_size"`
	QuantityBought decimal.Decimal `json:"quantity_bought" binding:"required"`
	UseCategory    string          `json:"use_category" binding:"required,oneof=A B Both"`
	DateDelivered  string          `json:"date_delivered" binding:"required,datetime=2006-01-02"`
	ExpirationDate string          `json:"expiration_date" binding:"omitempty,datetime=2006-01-02"`
	Cost           decimal.Decimal `json:"cost"`
}

// UpdateBatchRequest represents a partial update to a batch.
// Nil fields are left unchanged. QuantityLeft is never accepted; it is
// re-derived from the bought quantity and the recorded consumption.
type UpdateBatchRequest struct {
	SupplierCode   *string          `json:"supplier_code"`
	MaterialName   *string          `json:"material_name"`
	ContainerSize  *string          `json:"container_size"`
	QuantityBought *decimal.Decimal `json:"quantity_bought"`
	UseCategory    *string          `json:"use_category" binding:"omitempty,oneof=A B Both"`
	DateDelivered  *string          `json:"date_delivered" binding:"omitempty,datetime=2006-01-02"`
	ExpirationDate *string          `json:"expiration_date" binding:"omitempty,datetime=2006-01-02"`
	Cost           *decimal.Decimal `json:"cost"`
}

// BatchListFilter represents filter options for the batch list
type BatchListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BatchResponse represents a batch in API responses. AvailableTotal is the
// remaining quantity summed across every active batch the material could
// draw from given this batch's category.
type BatchResponse struct {
	Kind           string          `json:"kind"`
	Code           string          `json:"code"`
	SupplierCode   string          `json:"supplier_code"`
	MaterialName   string          `json:"material_name"`
	ContainerSize  string          `json:"container_size,omitempty"`
	QuantityBought decimal.Decimal `json:"quantity_bought"`
	QuantityLeft   decimal.Decimal `json:"quantity_left"`
	AvailableTotal decimal.Decimal `json:"available_total"`
	UseCategory    string          `json:"use_category"`
	DateDelivered  string          `json:"date_delivered"`
	ExpirationDate *string         `json:"expiration_date,omitempty"`
	Status         string          `json:"status"`
	Cost           decimal.Decimal `json:"cost"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToBatchResponse converts a domain batch to a response DTO
func ToBatchResponse(b *inventory.Batch) BatchResponse {
	resp := BatchResponse{
		Kind:           b.Kind.String(),
		Code:           b.Code,
		SupplierCode:   b.SupplierCode,
		MaterialName:   b.MaterialName,
		ContainerSize:  b.ContainerSize,
		QuantityBought: b.QuantityBought,
		QuantityLeft:   b.QuantityLeft,
		AvailableTotal: b.QuantityLeft,
		UseCategory:    b.UseCategory.String(),
		DateDelivered:  formatDate(b.DateDelivered),
		Status:         b.Status.String(),
		Cost:           b.Cost,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.ExpirationDate != nil {
		exp := formatDate(*b.ExpirationDate)
		resp.ExpirationDate = &exp
	}
	return resp
}

// RecordUsageRequest represents a consumption request against a batch
type RecordUsageRequest struct {
	BatchCode    string          `json:"batch_code" binding:"required"`
	QuantityUsed decimal.Decimal `json:"quantity_used" binding:"required"`
	UseCategory  string          `json:"use_category" binding:"required,oneof=A B Both"`
	DateUsed     string          `json:"date_used" binding:"required,datetime=2006-01-02"`
}

// UpdateUsageRequest represents a partial update to a usage record.
// Nil fields are left unchanged. The record's own batch absorbs any
// quantity delta; edits never cascade to other batches.
type UpdateUsageRequest struct {
	QuantityUsed *decimal.Decimal `json:"quantity_used"`
	UseCategory  *string          `json:"use_category" binding:"omitempty,oneof=A B Both"`
	DateUsed     *string          `json:"date_used" binding:"omitempty,datetime=2006-01-02"`
}

// UsageListFilter represents filter options for the usage record list
type UsageListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UsageResponse represents a usage record in API responses
type UsageResponse struct {
	Kind         string          `json:"kind"`
	Code         string          `json:"code"`
	BatchCode    string          `json:"batch_code"`
	MaterialName string          `json:"material_name"`
	UseCategory  string          `json:"use_category"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	DateUsed     string          `json:"date_used"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToUsageResponse converts a domain usage record to a response DTO
func ToUsageResponse(u *inventory.UsageRecord) UsageResponse {
	return UsageResponse{
		Kind:         u.Kind.String(),
		Code:         u.Code,
		BatchCode:    u.BatchCode,
		MaterialName: u.MaterialName,
		UseCategory:  u.UseCategory.String(),
		QuantityUsed: u.QuantityUsed,
		DateUsed:     formatDate(u.DateUsed),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// RecordUsageResult is the outcome of one consumption request: the usage
// records written, one per batch the allocation drew from.
type RecordUsageResult struct {
	Cascaded bool            `json:"cascaded"`
	Records  []UsageResponse `json:"records"`
}
