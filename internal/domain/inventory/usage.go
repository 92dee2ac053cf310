package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UsageRecord is one consumption event drawn from exactly one batch. A
// single logical request may produce several records when the allocation
// cascades; each one is independently reversible.
type UsageRecord struct {
	shared.BaseEntity
	Kind         MaterialKind
	Code         string
	BatchID      uuid.UUID
	BatchCode    string
	MaterialName string
	UseCategory  UseCategory
	QuantityUsed decimal.Decimal
	DateUsed     time.Time
	Active       bool
}

// NewUsageRecord creates an active usage record for a draw from the given
// batch. The material name is copied from the batch at creation time; the
// code is assigned by the caller via the batch code generator.
func NewUsageRecord(batch *Batch, category UseCategory, quantityUsed decimal.Decimal, dateUsed time.Time) *UsageRecord {
	return &UsageRecord{
		BaseEntity:   shared.NewBaseEntity(),
		Kind:         batch.Kind,
		BatchID:      batch.ID,
		BatchCode:    batch.Code,
		MaterialName: batch.MaterialName,
		UseCategory:  category,
		QuantityUsed: quantityUsed,
		DateUsed:     dateUsed,
		Active:       true,
	}
}

// Deactivate soft-deletes the usage record
func (u *UsageRecord) Deactivate() {
	u.Active = false
	u.Touch()
}
