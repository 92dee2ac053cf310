package inventory

import (
	"strings"
	"time"

	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Batch represents one purchased lot of a raw material with its own
// remaining quantity, generated code and derived status.
type Batch struct {
	shared.BaseEntity
	// Seq is the insertion sequence assigned by the persistence layer,
	// used as the FIFO tie-break for batches delivered the same day.
	Seq            int64
	Kind           MaterialKind
	Code           string
	SupplierCode   string
	MaterialName   string
	ContainerSize  string // packaging only
	QuantityBought decimal.Decimal
	QuantityLeft   decimal.Decimal
	UseCategory    UseCategory
	DateDelivered  time.Time
	ExpirationDate *time.Time // ingredients only
	Status         Status
	Cost           decimal.Decimal
	Active         bool
}

// NewIngredientBatch creates an ingredient batch with the full bought
// quantity still remaining. The code is assigned by the caller via the
// batch code generator.
func NewIngredientBatch(
	supplierCode, materialName string,
	quantityBought decimal.Decimal,
	category UseCategory,
	dateDelivered, expirationDate time.Time,
	cost decimal.Decimal,
) (*Batch, error) {
	fields := validateBatchFields(supplierCode, materialName, quantityBought, category)
	if expirationDate.Before(dateDelivered) {
		fields["expiration_date"] = "expiration date cannot be before the delivery date"
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError(fields)
	}

	exp := expirationDate
	return &Batch{
		BaseEntity:     shared.NewBaseEntity(),
		Kind:           MaterialKindIngredient,
		SupplierCode:   supplierCode,
		MaterialName:   strings.TrimSpace(materialName),
		QuantityBought: quantityBought,
		QuantityLeft:   quantityBought,
		UseCategory:    category,
		DateDelivered:  dateDelivered,
		ExpirationDate: &exp,
		Cost:           cost,
		Active:         true,
	}, nil
}

// NewPackagingBatch creates a packaging batch with the full bought quantity
// still remaining. Packaging quantities are whole units.
func NewPackagingBatch(
	supplierCode, materialName, containerSize string,
	quantityBought decimal.Decimal,
	category UseCategory,
	dateDelivered time.Time,
	cost decimal.Decimal,
) (*Batch, error) {
	fields := validateBatchFields(supplierCode, materialName, quantityBought, category)
	if strings.TrimSpace(containerSize) == "" {
		fields["container_size"] = "container size is required"
	}
	if !quantityBought.IsInteger() {
		fields["quantity_bought"] = "packaging quantity must be a whole number"
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError(fields)
	}

	return &Batch{
		BaseEntity:     shared.NewBaseEntity(),
		Kind:           MaterialKindPackaging,
		SupplierCode:   supplierCode,
		MaterialName:   strings.TrimSpace(materialName),
		ContainerSize:  strings.TrimSpace(containerSize),
		QuantityBought: quantityBought,
		QuantityLeft:   quantityBought,
		UseCategory:    category,
		DateDelivered:  dateDelivered,
		Cost:           cost,
		Active:         true,
	}, nil
}

func validateBatchFields(supplierCode, materialName string, quantityBought decimal.Decimal, category UseCategory) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(supplierCode) == "" {
		fields["supplier_code"] = "supplier code is required"
	}
	if strings.TrimSpace(materialName) == "" {
		fields["material_name"] = "material name is required"
	}
	if quantityBought.LessThanOrEqual(decimal.Zero) {
		fields["quantity_bought"] = "quantity bought must be positive"
	}
	if !category.IsValid() {
		fields["use_category"] = "use category must be A, B or Both"
	}
	return fields
}

// SameMaterial reports whether the other batch holds the same material:
// same name, and for packaging also the same container size.
func (b *Batch) SameMaterial(other *Batch) bool {
	if b.Kind != other.Kind || b.MaterialName != other.MaterialName {
		return false
	}
	if b.Kind == MaterialKindPackaging {
		return b.ContainerSize == other.ContainerSize
	}
	return true
}

// HasStock reports whether the batch has remaining quantity
func (b *Batch) HasStock() bool {
	return b.QuantityLeft.GreaterThan(decimal.Zero)
}

// Draw removes up to the requested quantity from the batch and returns the
// amount actually removed. QuantityLeft never drops below zero.
func (b *Batch) Draw(quantity decimal.Decimal) decimal.Decimal {
	drawn := decimal.Min(quantity, b.QuantityLeft)
	b.QuantityLeft = b.QuantityLeft.Sub(drawn)
	b.Touch()
	return drawn
}

// Restore adds quantity back to the batch (reversal of a usage record)
func (b *Batch) Restore(quantity decimal.Decimal) {
	b.QuantityLeft = b.QuantityLeft.Add(quantity)
	b.Touch()
}

// SetQuantityLeftFromUsage re-derives the remaining quantity after an edit
// of the bought quantity, clamping at zero.
func (b *Batch) SetQuantityLeftFromUsage(totalUsed decimal.Decimal) {
	left := b.QuantityBought.Sub(totalUsed)
	if left.IsNegative() {
		left = decimal.Zero
	}
	b.QuantityLeft = left
	b.Touch()
}

// RecomputeStatus derives and stores the batch's status as of today
func (b *Batch) RecomputeStatus(today time.Time, t StatusThresholds) {
	b.Status = ComputeStatus(b, today, t)
}

// Deactivate soft-deletes the batch
func (b *Batch) Deactivate() {
	b.Active = false
	b.Touch()
}
