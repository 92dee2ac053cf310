package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
)

// UsageService handles consumption events: recording them through the
// allocation engine, editing them, and reversing them. Every mutating
// operation runs in a single transaction that row-locks each batch it may
// touch before validating, so concurrent requests against the same
// material serialize and either fully apply or leave nothing behind.
type UsageService struct {
	txScope    TransactionScope
	usageRepo  inventory.UsageRecordRepository
	engine     *inventory.AllocationEngine
	codeGen    *inventory.BatchCodeGenerator
	cache      ReportCache
	thresholds inventory.StatusThresholds
	retryLimit int
	now        func() time.Time
}

// NewUsageService creates a new UsageService
func NewUsageService(
	txScope TransactionScope,
	usageRepo inventory.UsageRecordRepository,
	codeGen *inventory.BatchCodeGenerator,
) *UsageService {
	return &UsageService{
		txScope:    txScope,
		usageRepo:  usageRepo,
		engine:     inventory.NewAllocationEngine(),
		codeGen:    codeGen,
		thresholds: inventory.DefaultStatusThresholds(),
		retryLimit: DefaultCodeRetryLimit,
		now:        time.Now,
	}
}

// SetStatusThresholds overrides the default status thresholds
func (s *UsageService) SetStatusThresholds(t inventory.StatusThresholds) {
	s.thresholds = t
}

// SetCodeRetryLimit overrides the default code-conflict retry limit
func (s *UsageService) SetCodeRetryLimit(n int) {
	if n > 0 {
		s.retryLimit = n
	}
}

// SetReportCache makes usage writes invalidate cached reports
func (s *UsageService) SetReportCache(cache ReportCache) {
	s.cache = cache
}

func (s *UsageService) invalidateReports(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateReports(ctx)
	}
}

// Record draws the requested quantity from the named batch, cascading
// across eligible sibling batches when it does not fit, and writes one
// usage record per batch drawn from. The operation is all-or-nothing.
func (s *UsageService) Record(ctx context.Context, kind inventory.MaterialKind, req RecordUsageRequest) (*RecordUsageResult, error) {
	dateUsed, err := ParseDate(req.DateUsed)
	if err != nil {
		return nil, shared.NewValidationError(map[string]string{
			"date_used": "date used must be a valid YYYY-MM-DD date",
		})
	}
	category := inventory.UseCategory(req.UseCategory)

	var result *RecordUsageResult
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByCodeForUpdate(ctx, kind, req.BatchCode)
		if err != nil {
			return err
		}

		candidates, err := repos.BatchRepo().FindAllocationCandidatesForUpdate(
			ctx, kind, batch.MaterialName, batch.ContainerSize, batch.ID,
		)
		if err != nil {
			return err
		}
		ptrs := make([]*inventory.Batch, len(candidates))
		for i := range candidates {
			ptrs[i] = &candidates[i]
		}

		plan, err := s.engine.Plan(batch, ptrs, req.QuantityUsed, category, dateUsed)
		if err != nil {
			return err
		}
		plan.Apply()

		result = &RecordUsageResult{Cascaded: plan.Cascaded()}
		today := s.now()
		for _, draw := range plan.Draws {
			draw.Batch.RecomputeStatus(today, s.thresholds)
			if err := repos.BatchRepo().Save(ctx, draw.Batch); err != nil {
				return err
			}

			record := inventory.NewUsageRecord(draw.Batch, category, draw.Amount, dateUsed)
			if err := s.saveWithFreshCode(ctx, repos.UsageRepo(), record); err != nil {
				return err
			}
			result.Records = append(result.Records, ToUsageResponse(record))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return result, nil
}

// GetByCode retrieves a usage record by code
func (s *UsageService) GetByCode(ctx context.Context, kind inventory.MaterialKind, code string) (*UsageResponse, error) {
	record, err := s.usageRepo.FindByCode(ctx, kind, code)
	if err != nil {
		return nil, err
	}
	if !record.Active {
		return nil, shared.ErrNotFound
	}
	resp := ToUsageResponse(record)
	return &resp, nil
}

// List retrieves active usage records, newest usage date first
func (s *UsageService) List(ctx context.Context, kind inventory.MaterialKind, filter UsageListFilter) (shared.Paginated[UsageResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}

	records, err := s.usageRepo.FindActive(ctx, kind, domainFilter)
	if err != nil {
		return shared.Paginated[UsageResponse]{}, err
	}
	total, err := s.usageRepo.CountActive(ctx, kind, domainFilter)
	if err != nil {
		return shared.Paginated[UsageResponse]{}, err
	}

	items := make([]UsageResponse, len(records))
	for i := range records {
		items[i] = ToUsageResponse(&records[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.Limit()), nil
}

// Update edits a usage record in place. The record's own batch absorbs the
// quantity delta; the edit never touches other batches, so a new quantity
// the batch cannot cover fails with the stock error instead of cascading.
func (s *UsageService) Update(ctx context.Context, kind inventory.MaterialKind, code string, req UpdateUsageRequest) (*UsageResponse, error) {
	var updated *inventory.UsageRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.UsageRepo().FindByCode(ctx, kind, code)
		if err != nil {
			return err
		}
		if !record.Active {
			return shared.ErrNotFound
		}

		batch, err := repos.BatchRepo().FindByCodeForUpdate(ctx, kind, record.BatchCode)
		if err != nil {
			return err
		}
		// The edit redraws against the record's batch; a soft-deleted
		// batch no longer accepts draws.
		if !batch.Active {
			return shared.ErrDeleted
		}

		quantity := record.QuantityUsed
		dateUsed := record.DateUsed
		category := record.UseCategory
		if req.QuantityUsed != nil {
			quantity = *req.QuantityUsed
		}
		if req.DateUsed != nil {
			parsed, err := ParseDate(*req.DateUsed)
			if err != nil {
				return shared.NewValidationError(map[string]string{
					"date_used": "date used must be a valid YYYY-MM-DD date",
				})
			}
			dateUsed = parsed
		}
		if req.UseCategory != nil {
			category = inventory.UseCategory(*req.UseCategory)
		}

		if !quantity.IsPositive() {
			return shared.NewValidationError(map[string]string{
				"quantity_used": "quantity used must be positive",
			})
		}
		if !category.IsValid() {
			return shared.NewValidationError(map[string]string{
				"use_category": "use category must be A, B or Both",
			})
		}
		if dateUsed.Before(batch.DateDelivered) {
			return &shared.DateOrderError{
				BatchCode:     batch.Code,
				DateUsed:      dateUsed,
				DateDelivered: batch.DateDelivered,
			}
		}

		// Give the old amount back first; a failure after this point
		// rolls the whole transaction back, so the restore never leaks.
		batch.Restore(record.QuantityUsed)
		if batch.QuantityLeft.LessThan(quantity) {
			return &shared.InsufficientStockError{
				MaterialName: batch.MaterialName,
				Requested:    quantity,
				Available:    batch.QuantityLeft,
			}
		}
		batch.Draw(quantity)
		batch.RecomputeStatus(s.now(), s.thresholds)
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		record.QuantityUsed = quantity
		record.DateUsed = dateUsed
		record.UseCategory = category
		record.Touch()
		if err := repos.UsageRepo().Save(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	resp := ToUsageResponse(updated)
	return &resp, nil
}

// Delete reverses a usage record: the exact recorded quantity goes back to
// the batch it was drawn from and the record is marked inactive. Sibling
// batches a cascade may have touched are untouched; each record reverses
// independently.
func (s *UsageService) Delete(ctx context.Context, kind inventory.MaterialKind, code string) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.UsageRepo().FindByCode(ctx, kind, code)
		if err != nil {
			return err
		}
		if !record.Active {
			return shared.ErrNotFound
		}

		batch, err := repos.BatchRepo().FindByCodeForUpdate(ctx, kind, record.BatchCode)
		switch {
		case err == nil && batch.Active:
			batch.Restore(record.QuantityUsed)
			batch.RecomputeStatus(s.now(), s.thresholds)
			if err := repos.BatchRepo().Save(ctx, batch); err != nil {
				return err
			}
		case err == nil || errors.Is(err, shared.ErrNotFound):
			// The batch was deleted after the usage was recorded. Its
			// stock is no longer tracked, so the reversal only retires
			// the record.
		default:
			return err
		}

		record.Deactivate()
		return repos.UsageRepo().Save(ctx, record)
	})
	if err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// saveWithFreshCode assigns a generated usage code and saves, regenerating
// a taken code up to the retry limit. The code is checked before the
// insert: this always runs inside the allocation transaction, where a
// unique-index violation would abort the transaction on Postgres and
// take every already-applied draw down with it.
func (s *UsageService) saveWithFreshCode(ctx context.Context, repo inventory.UsageRecordRepository, record *inventory.UsageRecord) error {
	for attempt := 0; attempt < s.retryLimit; attempt++ {
		code := s.codeGen.GenerateUsageCode(record.MaterialName, record.DateUsed)
		_, err := repo.FindByCode(ctx, record.Kind, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		record.Code = code
		return repo.Save(ctx, record)
	}
	return shared.ErrAlreadyExists
}
