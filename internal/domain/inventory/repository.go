package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchRepository defines the interface for batch persistence. Each method
// takes the material kind because ingredient and packaging batches live in
// separate tables sharing one shape.
type BatchRepository interface {
	// FindByCode finds a batch by its generated code
	FindByCode(ctx context.Context, kind MaterialKind, code string) (*Batch, error)

	// FindByCodeForUpdate finds a batch by code while holding a row lock
	// for the remainder of the enclosing transaction
	FindByCodeForUpdate(ctx context.Context, kind MaterialKind, code string) (*Batch, error)

	// FindActive lists active batches, newest delivery first with newest
	// insertion first for same-day entries
	FindActive(ctx context.Context, kind MaterialKind, filter shared.Filter) ([]Batch, error)

	// FindAllocationCandidatesForUpdate finds the active batches of the
	// same material with stock remaining, excluding the given batch,
	// ordered oldest delivery first then insertion order, each row locked
	// for the remainder of the enclosing transaction. containerSize is
	// ignored for ingredients.
	FindAllocationCandidatesForUpdate(ctx context.Context, kind MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]Batch, error)

	// FindActiveSiblings finds the active batches sharing a material
	// identity, excluding the given batch
	FindActiveSiblings(ctx context.Context, kind MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]Batch, error)

	// Save creates or updates a batch. A duplicate code fails with
	// shared.ErrAlreadyExists.
	Save(ctx context.Context, batch *Batch) error

	// CountActive counts active batches matching the filter
	CountActive(ctx context.Context, kind MaterialKind, filter shared.Filter) (int64, error)
}

// UsageRecordRepository defines the interface for usage record persistence
type UsageRecordRepository interface {
	// FindByCode finds a usage record by its generated code
	FindByCode(ctx context.Context, kind MaterialKind, code string) (*UsageRecord, error)

	// FindActive lists active usage records, newest usage date first
	FindActive(ctx context.Context, kind MaterialKind, filter shared.Filter) ([]UsageRecord, error)

	// SumUsedByBatch sums QuantityUsed over active usage records that draw
	// from the given batch
	SumUsedByBatch(ctx context.Context, kind MaterialKind, batchID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a usage record. A duplicate code fails with
	// shared.ErrAlreadyExists.
	Save(ctx context.Context, record *UsageRecord) error

	// CountActive counts active usage records matching the filter
	CountActive(ctx context.Context, kind MaterialKind, filter shared.Filter) (int64, error)
}

// UsageTotal is a per-material consumption total within a report window
type UsageTotal struct {
	MaterialName string
	TotalUsed    decimal.Decimal
}

// ExpiryTotal pairs the stock expiring inside a report window with the
// stock of the same material expiring outside it
type ExpiryTotal struct {
	MaterialName      string
	ExpiredQuantity   decimal.Decimal
	RemainingQuantity decimal.Decimal
}

// ReportRepository defines the read-only aggregate queries behind the
// reporting views. Implementations never mutate state and run without
// locks.
type ReportRepository interface {
	// SumQuantityLeft sums remaining quantity over active batches of the
	// material restricted to the given categories. containerSize is
	// ignored for ingredients.
	SumQuantityLeft(ctx context.Context, kind MaterialKind, materialName, containerSize string, categories []UseCategory) (decimal.Decimal, error)

	// UsageTotals aggregates per-material consumption for usage records
	// whose usage date falls inside the inclusive range
	UsageTotals(ctx context.Context, kind MaterialKind, dateRange shared.DateRange) ([]UsageTotal, error)

	// ExpiryTotals aggregates, per ingredient material, the remaining
	// quantity of batches expiring inside the inclusive range together
	// with the remaining quantity of batches expiring outside it
	ExpiryTotals(ctx context.Context, dateRange shared.DateRange) ([]ExpiryTotal, error)
}
