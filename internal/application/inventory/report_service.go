package inventory

import (
	"context"
	"time"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultReportCacheTTL bounds how stale a cached report may get. Write
// paths invalidate eagerly; the TTL is the backstop.
const DefaultReportCacheTTL = 5 * time.Minute

// ReportCache caches computed report payloads keyed by report parameters.
// Implementations must treat a miss as (false, nil).
type ReportCache interface {
	// Get loads the cached payload for key into dest, reporting whether
	// the key was present
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores the payload for key with the given TTL
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// InvalidateReports drops every cached report payload
	InvalidateReports(ctx context.Context) error
}

// UsageReportRow is a per-material consumption total within the window
type UsageReportRow struct {
	MaterialName string          `json:"material_name"`
	TotalUsed    decimal.Decimal `json:"total_used"`
}

// ExpiryReportRow pairs, for one ingredient material, the remaining stock
// expiring inside the window with the remaining stock expiring outside it
type ExpiryReportRow struct {
	MaterialName      string          `json:"material_name"`
	ExpiredQuantity   decimal.Decimal `json:"expired_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
}

// SummaryReportResponse is the combined consumption and expiry report for
// an inclusive date window
type SummaryReportResponse struct {
	Start           string            `json:"start"`
	End             string            `json:"end"`
	IngredientUsage []UsageReportRow  `json:"ingredient_usage"`
	PackagingUsage  []UsageReportRow  `json:"packaging_usage"`
	Expiry          []ExpiryReportRow `json:"expiry"`
}

// ReportService serves the read-only aggregate views. Queries run without
// locks; results may lag a concurrent allocation by design.
type ReportService struct {
	reportRepo inventory.ReportRepository
	cache      ReportCache
	cacheTTL   time.Duration
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo inventory.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		cacheTTL:   DefaultReportCacheTTL,
	}
}

// SetCache enables report caching through the given cache
func (s *ReportService) SetCache(cache ReportCache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// AvailableQuantity sums the remaining stock a request of the given
// category could draw from: the material's own-category batches plus
// shared stock, or shared stock only for a Both request.
func (s *ReportService) AvailableQuantity(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string, category inventory.UseCategory) (decimal.Decimal, error) {
	if materialName == "" {
		return decimal.Zero, shared.NewValidationError(map[string]string{
			"material_name": "material name is required",
		})
	}
	if !category.IsValid() {
		return decimal.Zero, shared.NewValidationError(map[string]string{
			"use_category": "use category must be A, B or Both",
		})
	}
	return s.reportRepo.SumQuantityLeft(ctx, kind, materialName, containerSize, category.DrawsFrom())
}

// Summary builds the combined usage and expiry report for the inclusive
// window, served from cache when possible.
func (s *ReportService) Summary(ctx context.Context, start, end string) (*SummaryReportResponse, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return nil, shared.NewValidationError(map[string]string{
			"start": "start must be a valid YYYY-MM-DD date",
		})
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return nil, shared.NewValidationError(map[string]string{
			"end": "end must be a valid YYYY-MM-DD date",
		})
	}
	window := shared.DateRange{Start: startDate, End: endDate}
	if !window.IsValid() {
		return nil, shared.NewValidationError(map[string]string{
			"end": "end cannot be before start",
		})
	}

	key := "reports:summary:" + start + ":" + end
	if s.cache != nil {
		var cached SummaryReportResponse
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	ingredientTotals, err := s.reportRepo.UsageTotals(ctx, inventory.MaterialKindIngredient, window)
	if err != nil {
		return nil, err
	}
	packagingTotals, err := s.reportRepo.UsageTotals(ctx, inventory.MaterialKindPackaging, window)
	if err != nil {
		return nil, err
	}
	expiryTotals, err := s.reportRepo.ExpiryTotals(ctx, window)
	if err != nil {
		return nil, err
	}

	resp := &SummaryReportResponse{
		Start:           start,
		End:             end,
		IngredientUsage: toUsageRows(ingredientTotals),
		PackagingUsage:  toUsageRows(packagingTotals),
		Expiry:          toExpiryRows(expiryTotals),
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	}
	return resp, nil
}

func toUsageRows(totals []inventory.UsageTotal) []UsageReportRow {
	rows := make([]UsageReportRow, len(totals))
	for i, t := range totals {
		rows[i] = UsageReportRow{MaterialName: t.MaterialName, TotalUsed: t.TotalUsed}
	}
	return rows
}

func toExpiryRows(totals []inventory.ExpiryTotal) []ExpiryReportRow {
	rows := make([]ExpiryReportRow, len(totals))
	for i, t := range totals {
		rows[i] = ExpiryReportRow{
			MaterialName:      t.MaterialName,
			ExpiredQuantity:   t.ExpiredQuantity,
			RemainingQuantity: t.RemainingQuantity,
		}
	}
	return rows
}
