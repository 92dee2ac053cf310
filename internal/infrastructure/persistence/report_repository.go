package persistence

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/imaps/backend/internal/infrastructure/persistence/models"
)

// GormReportRepository implements ReportRepository using GORM. All
// queries are read-only aggregates and run without row locks.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// SumQuantityLeft sums remaining quantity over active batches of the
// material restricted to the given categories
func (r *GormReportRepository) SumQuantityLeft(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string, categories []inventory.UseCategory) (decimal.Decimal, error) {
	cats := make([]string, len(categories))
	for i, c := range categories {
		cats[i] = string(c)
	}

	query := r.db.WithContext(ctx).
		Select("COALESCE(SUM(quantity_left), 0)").
		Where("active = TRUE").
		Where("material_name = ?", materialName).
		Where("use_category IN ?", cats)
	if kind == inventory.MaterialKindIngredient {
		query = query.Model(&models.IngredientBatchModel{})
	} else {
		query = query.Model(&models.PackagingBatchModel{}).
			Where("container_size = ?", containerSize)
	}

	var total decimal.Decimal
	if err := query.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// usageTotalRow is the scan target for the usage aggregate
type usageTotalRow struct {
	MaterialName string          `gorm:"column:material_name"`
	TotalUsed    decimal.Decimal `gorm:"column:total_used"`
}

// UsageTotals aggregates per-material consumption for usage records
// whose usage date falls inside the inclusive range
func (r *GormReportRepository) UsageTotals(ctx context.Context, kind inventory.MaterialKind, dateRange shared.DateRange) ([]inventory.UsageTotal, error) {
	query := r.db.WithContext(ctx).
		Select("material_name, COALESCE(SUM(quantity_used), 0) AS total_used").
		Where("active = TRUE").
		Where("date_used >= ? AND date_used <= ?", dateRange.Start, dateRange.End).
		Group("material_name").
		Order("material_name ASC")
	if kind == inventory.MaterialKindIngredient {
		query = query.Model(&models.IngredientUsageModel{})
	} else {
		query = query.Model(&models.PackagingUsageModel{})
	}

	var rows []usageTotalRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]inventory.UsageTotal, len(rows))
	for i, row := range rows {
		totals[i] = inventory.UsageTotal{
			MaterialName: row.MaterialName,
			TotalUsed:    row.TotalUsed,
		}
	}
	return totals, nil
}

// expiryTotalRow is the scan target for the expiry aggregate
type expiryTotalRow struct {
	MaterialName      string          `gorm:"column:material_name"`
	ExpiredQuantity   decimal.Decimal `gorm:"column:expired_quantity"`
	RemainingQuantity decimal.Decimal `gorm:"column:remaining_quantity"`
}

// ExpiryTotals aggregates, per ingredient material, the remaining
// quantity of batches expiring inside the inclusive range together with
// the remaining quantity of batches expiring outside it. Materials with
// nothing expiring inside the window are omitted.
func (r *GormReportRepository) ExpiryTotals(ctx context.Context, dateRange shared.DateRange) ([]inventory.ExpiryTotal, error) {
	var rows []expiryTotalRow
	err := r.db.WithContext(ctx).
		Model(&models.IngredientBatchModel{}).
		Select(`material_name,
			COALESCE(SUM(CASE WHEN expiration_date >= ? AND expiration_date <= ? THEN quantity_left ELSE 0 END), 0) AS expired_quantity,
			COALESCE(SUM(CASE WHEN expiration_date < ? OR expiration_date > ? THEN quantity_left ELSE 0 END), 0) AS remaining_quantity`,
			dateRange.Start, dateRange.End, dateRange.Start, dateRange.End).
		Where("active = TRUE").
		Where("expiration_date IS NOT NULL").
		Group("material_name").
		Having("SUM(CASE WHEN expiration_date >= ? AND expiration_date <= ? THEN quantity_left ELSE 0 END) > 0",
			dateRange.Start, dateRange.End).
		Order("material_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]inventory.ExpiryTotal, len(rows))
	for i, row := range rows {
		totals[i] = inventory.ExpiryTotal{
			MaterialName:      row.MaterialName,
			ExpiredQuantity:   row.ExpiredQuantity,
			RemainingQuantity: row.RemainingQuantity,
		}
	}
	return totals, nil
}

// Ensure GormReportRepository implements ReportRepository
var _ inventory.ReportRepository = (*GormReportRepository)(nil)
