package partner

import (
	"context"
	"errors"

	"github.com/imaps/backend/internal/domain/partner"
	"github.com/imaps/backend/internal/domain/shared"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
	}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	existing, err := s.supplierRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	supplier, err := partner.NewSupplier(req.Code, req.Name, partner.SupplierCategory(req.Category))
	if err != nil {
		return nil, err
	}
	supplier.SocialMedia = partner.JoinContacts(req.SocialMedia)
	supplier.EmailAddress = partner.JoinContacts(req.EmailAddress)
	supplier.ContactNumber = partner.JoinContacts(req.ContactNumber)
	supplier.PointPerson = req.PointPerson

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByCode retrieves a supplier by code
func (s *SupplierService) GetByCode(ctx context.Context, code string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves active suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) (shared.Paginated[SupplierResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}

	var (
		suppliers []partner.Supplier
		err       error
	)
	if filter.Category != "" {
		suppliers, err = s.supplierRepo.FindByCategory(ctx, partner.SupplierCategory(filter.Category))
	} else {
		suppliers, err = s.supplierRepo.FindActive(ctx, domainFilter)
	}
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}

	total, err := s.supplierRepo.CountActive(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}

	return shared.NewPaginated(ToSupplierResponses(suppliers), total, domainFilter.Page, domainFilter.Limit()), nil
}

// Update applies a partial update to a supplier
func (s *SupplierService) Update(ctx context.Context, code string, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := *req.Name
		if name == "" {
			return nil, shared.NewValidationError(map[string]string{
				"name": "supplier name is required",
			})
		}
		supplier.Name = name
	}
	if req.Category != nil {
		category := partner.SupplierCategory(*req.Category)
		if !category.IsValid() {
			return nil, shared.NewValidationError(map[string]string{
				"category": "category must be Ingredient, Packaging or Both",
			})
		}
		supplier.Category = category
	}
	if req.SocialMedia != nil {
		supplier.SocialMedia = partner.JoinContacts(*req.SocialMedia)
	}
	if req.EmailAddress != nil {
		supplier.EmailAddress = partner.JoinContacts(*req.EmailAddress)
	}
	if req.ContactNumber != nil {
		supplier.ContactNumber = partner.JoinContacts(*req.ContactNumber)
	}
	if req.PointPerson != nil {
		supplier.PointPerson = *req.PointPerson
	}
	supplier.Touch()

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete soft-deletes a supplier. Existing batches keep referencing its
// code; the supplier just stops appearing in listings.
func (s *SupplierService) Delete(ctx context.Context, code string) error {
	supplier, err := s.supplierRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}

	supplier.Deactivate()
	return s.supplierRepo.Save(ctx, supplier)
}
