package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/partner"
	"github.com/imaps/backend/internal/domain/shared"
)

// DefaultCodeRetryLimit bounds how many times a service regenerates a
// batch or usage code after a uniqueness conflict before giving up.
const DefaultCodeRetryLimit = 5

// BatchService handles the batch lifecycle: recording deliveries, edits
// that re-derive the remaining quantity, and soft deletion with sibling
// rebalancing.
type BatchService struct {
	txScope      TransactionScope
	batchRepo    inventory.BatchRepository
	supplierRepo partner.SupplierRepository
	reportRepo   inventory.ReportRepository
	codeGen      *inventory.BatchCodeGenerator
	cache        ReportCache
	thresholds   inventory.StatusThresholds
	retryLimit   int
	now          func() time.Time
}

// NewBatchService creates a new BatchService
func NewBatchService(
	txScope TransactionScope,
	batchRepo inventory.BatchRepository,
	supplierRepo partner.SupplierRepository,
	reportRepo inventory.ReportRepository,
	codeGen *inventory.BatchCodeGenerator,
) *BatchService {
	return &BatchService{
		txScope:      txScope,
		batchRepo:    batchRepo,
		supplierRepo: supplierRepo,
		reportRepo:   reportRepo,
		codeGen:      codeGen,
		thresholds:   inventory.DefaultStatusThresholds(),
		retryLimit:   DefaultCodeRetryLimit,
		now:          time.Now,
	}
}

// SetStatusThresholds overrides the default status thresholds
func (s *BatchService) SetStatusThresholds(t inventory.StatusThresholds) {
	s.thresholds = t
}

// SetCodeRetryLimit overrides the default code-conflict retry limit
func (s *BatchService) SetCodeRetryLimit(n int) {
	if n > 0 {
		s.retryLimit = n
	}
}

// SetReportCache makes batch writes invalidate cached reports
func (s *BatchService) SetReportCache(cache ReportCache) {
	s.cache = cache
}

// invalidateReports drops cached reports after a successful write.
// Best-effort: a cache failure never fails the write.
func (s *BatchService) invalidateReports(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateReports(ctx)
	}
}

// Create records a delivered batch. The quantity left always starts at the
// bought quantity and the code is generated, retrying on conflict.
func (s *BatchService) Create(ctx context.Context, kind inventory.MaterialKind, req CreateBatchRequest) (*BatchResponse, error) {
	if err := s.checkSupplier(ctx, req.SupplierCode, kind); err != nil {
		return nil, err
	}

	dateDelivered, err := ParseDate(req.DateDelivered)
	if err != nil {
		return nil, shared.NewValidationError(map[string]string{
			"date_delivered": "date delivered must be a valid YYYY-MM-DD date",
		})
	}

	var batch *inventory.Batch
	switch kind {
	case inventory.MaterialKindIngredient:
		if req.ExpirationDate == "" {
			return nil, shared.NewValidationError(map[string]string{
				"expiration_date": "expiration date is required for ingredients",
			})
		}
		expiration, err := ParseDate(req.ExpirationDate)
		if err != nil {
			return nil, shared.NewValidationError(map[string]string{
				"expiration_date": "expiration date must be a valid YYYY-MM-DD date",
			})
		}
		batch, err = inventory.NewIngredientBatch(
			req.SupplierCode, req.MaterialName, req.QuantityBought,
			inventory.UseCategory(req.UseCategory), dateDelivered, expiration, req.Cost,
		)
		if err != nil {
			return nil, err
		}
	case inventory.MaterialKindPackaging:
		batch, err = inventory.NewPackagingBatch(
			req.SupplierCode, req.MaterialName, req.ContainerSize, req.QuantityBought,
			inventory.UseCategory(req.UseCategory), dateDelivered, req.Cost,
		)
		if err != nil {
			return nil, err
		}
	default:
		return nil, shared.ErrInvalidInput
	}

	batch.RecomputeStatus(s.now(), s.thresholds)
	if err := s.saveWithFreshCode(ctx, s.batchRepo, batch); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)

	return s.respond(ctx, batch)
}

// GetByCode retrieves a batch by code
func (s *BatchService) GetByCode(ctx context.Context, kind inventory.MaterialKind, code string) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByCode(ctx, kind, code)
	if err != nil {
		return nil, err
	}
	if !batch.Active {
		return nil, shared.ErrNotFound
	}
	return s.respond(ctx, batch)
}

// List retrieves active batches, newest delivery first, each row carrying
// the cross-batch available total for its material and category.
func (s *BatchService) List(ctx context.Context, kind inventory.MaterialKind, filter BatchListFilter) (shared.Paginated[BatchResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}

	batches, err := s.batchRepo.FindActive(ctx, kind, domainFilter)
	if err != nil {
		return shared.Paginated[BatchResponse]{}, err
	}
	total, err := s.batchRepo.CountActive(ctx, kind, domainFilter)
	if err != nil {
		return shared.Paginated[BatchResponse]{}, err
	}

	// Rows of the same material and category share one total.
	totals := map[string]BatchResponse{}
	items := make([]BatchResponse, len(batches))
	for i := range batches {
		b := &batches[i]
		key := b.MaterialName + "\x00" + b.ContainerSize + "\x00" + b.UseCategory.String()
		if cached, ok := totals[key]; ok {
			items[i] = ToBatchResponse(b)
			items[i].AvailableTotal = cached.AvailableTotal
			continue
		}
		resp, err := s.respond(ctx, b)
		if err != nil {
			return shared.Paginated[BatchResponse]{}, err
		}
		items[i] = *resp
		totals[key] = *resp
	}

	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.Limit()), nil
}

// Update applies a partial edit to a batch. The remaining quantity is
// always re-derived from the bought quantity minus the recorded active
// consumption; the code regenerates only when a code-bearing field
// changed.
func (s *BatchService) Update(ctx context.Context, kind inventory.MaterialKind, code string, req UpdateBatchRequest) (*BatchResponse, error) {
	var updated *inventory.Batch
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByCodeForUpdate(ctx, kind, code)
		if err != nil {
			return err
		}
		if !batch.Active {
			return shared.ErrDeleted
		}
		before := *batch

		if err := s.applyBatchEdits(ctx, batch, req); err != nil {
			return err
		}

		totalUsed, err := repos.UsageRepo().SumUsedByBatch(ctx, kind, batch.ID)
		if err != nil {
			return err
		}
		batch.SetQuantityLeftFromUsage(totalUsed)
		batch.RecomputeStatus(s.now(), s.thresholds)

		if inventory.NeedsRegeneration(&before, batch) {
			if err := s.saveWithFreshCode(ctx, repos.BatchRepo(), batch); err != nil {
				return err
			}
		} else if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return s.respond(ctx, updated)
}

// Delete soft-deletes a batch and rebalances the remaining quantity of its
// active siblings from gross bought totals, per the tier propagation
// rules: deleting line stock resets that line, deleting shared stock
// resets the shared tier and both lines.
func (s *BatchService) Delete(ctx context.Context, kind inventory.MaterialKind, code string) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByCodeForUpdate(ctx, kind, code)
		if err != nil {
			return err
		}
		// Deletion is terminal. A second delete must not rebalance the
		// siblings again: that would erase consumption recorded since.
		if !batch.Active {
			return shared.ErrDeleted
		}

		batch.Deactivate()
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		siblings, err := repos.BatchRepo().FindActiveSiblings(ctx, kind, batch.MaterialName, batch.ContainerSize, batch.ID)
		if err != nil {
			return err
		}
		ptrs := make([]*inventory.Batch, len(siblings))
		for i := range siblings {
			ptrs[i] = &siblings[i]
		}

		for _, changed := range inventory.RebalanceSiblings(batch, ptrs) {
			changed.RecomputeStatus(s.now(), s.thresholds)
			if err := repos.BatchRepo().Save(ctx, changed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// checkSupplier verifies the supplier exists, is active, and supplies the
// given material kind.
func (s *BatchService) checkSupplier(ctx context.Context, code string, kind inventory.MaterialKind) error {
	supplier, err := s.supplierRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError(map[string]string{
				"supplier_code": "unknown supplier",
			})
		}
		return err
	}
	if !supplier.Active {
		return shared.NewValidationError(map[string]string{
			"supplier_code": "supplier is no longer active",
		})
	}
	ok := supplier.Category.SuppliesIngredients()
	if kind == inventory.MaterialKindPackaging {
		ok = supplier.Category.SuppliesPackaging()
	}
	if !ok {
		return shared.NewValidationError(map[string]string{
			"supplier_code": "supplier does not supply " + kind.String() + " materials",
		})
	}
	return nil
}

func (s *BatchService) applyBatchEdits(ctx context.Context, batch *inventory.Batch, req UpdateBatchRequest) error {
	if req.SupplierCode != nil && *req.SupplierCode != batch.SupplierCode {
		if err := s.checkSupplier(ctx, *req.SupplierCode, batch.Kind); err != nil {
			return err
		}
		batch.SupplierCode = *req.SupplierCode
	}
	if req.MaterialName != nil {
		if *req.MaterialName == "" {
			return shared.NewValidationError(map[string]string{
				"material_name": "material name is required",
			})
		}
		batch.MaterialName = *req.MaterialName
	}
	if req.ContainerSize != nil && batch.Kind == inventory.MaterialKindPackaging {
		if *req.ContainerSize == "" {
			return shared.NewValidationError(map[string]string{
				"container_size": "container size is required",
			})
		}
		batch.ContainerSize = *req.ContainerSize
	}
	if req.QuantityBought != nil {
		fields := map[string]string{}
		if !req.QuantityBought.IsPositive() {
			fields["quantity_bought"] = "quantity bought must be positive"
		}
		if batch.Kind == inventory.MaterialKindPackaging && !req.QuantityBought.IsInteger() {
			fields["quantity_bought"] = "packaging quantity must be a whole number"
		}
		if len(fields) > 0 {
			return shared.NewValidationError(fields)
		}
		batch.QuantityBought = *req.QuantityBought
	}
	if req.UseCategory != nil {
		category := inventory.UseCategory(*req.UseCategory)
		if !category.IsValid() {
			return shared.NewValidationError(map[string]string{
				"use_category": "use category must be A, B or Both",
			})
		}
		batch.UseCategory = category
	}
	if req.DateDelivered != nil {
		delivered, err := ParseDate(*req.DateDelivered)
		if err != nil {
			return shared.NewValidationError(map[string]string{
				"date_delivered": "date delivered must be a valid YYYY-MM-DD date",
			})
		}
		batch.DateDelivered = delivered
	}
	if req.ExpirationDate != nil && batch.Kind == inventory.MaterialKindIngredient {
		expiration, err := ParseDate(*req.ExpirationDate)
		if err != nil {
			return shared.NewValidationError(map[string]string{
				"expiration_date": "expiration date must be a valid YYYY-MM-DD date",
			})
		}
		batch.ExpirationDate = &expiration
	}
	if batch.ExpirationDate != nil && batch.ExpirationDate.Before(batch.DateDelivered) {
		return shared.NewValidationError(map[string]string{
			"expiration_date": "expiration date cannot be before the delivery date",
		})
	}
	if req.Cost != nil {
		batch.Cost = *req.Cost
	}
	batch.Touch()
	return nil
}

// saveWithFreshCode assigns a generated code and saves, regenerating a
// taken code up to the retry limit. Uniqueness is checked before the
// write: letting the insert hit the unique index inside a transaction
// would abort it on Postgres, and every later statement in it fails.
func (s *BatchService) saveWithFreshCode(ctx context.Context, repo inventory.BatchRepository, batch *inventory.Batch) error {
	for attempt := 0; attempt < s.retryLimit; attempt++ {
		code := s.codeGen.Generate(batch.MaterialName, batch.DateDelivered, batch.ContainerSize)
		_, err := repo.FindByCode(ctx, batch.Kind, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		batch.Code = code
		return repo.Save(ctx, batch)
	}
	return shared.ErrAlreadyExists
}

// respond builds the response DTO, filling in the cross-batch available
// total for the batch's material and category.
func (s *BatchService) respond(ctx context.Context, batch *inventory.Batch) (*BatchResponse, error) {
	resp := ToBatchResponse(batch)
	total, err := s.reportRepo.SumQuantityLeft(
		ctx, batch.Kind, batch.MaterialName, batch.ContainerSize,
		batch.UseCategory.DrawsFrom(),
	)
	if err != nil {
		return nil, err
	}
	resp.AvailableTotal = total
	return &resp, nil
}
