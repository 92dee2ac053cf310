package partner

import (
	"context"

	"github.com/imaps/backend/internal/domain/shared"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByCode finds a supplier by its externally assigned code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// FindActive finds all active suppliers matching the filter
	FindActive(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// FindByCategory finds active suppliers whose category allows them to
	// supply the given material kind (exact match or Both)
	FindByCategory(ctx context.Context, category SupplierCategory) ([]Supplier, error)

	// Save creates or updates a supplier. Creating a supplier with an
	// existing code fails with shared.ErrAlreadyExists.
	Save(ctx context.Context, supplier *Supplier) error

	// CountActive counts active suppliers matching the filter
	CountActive(ctx context.Context, filter shared.Filter) (int64, error)
}
