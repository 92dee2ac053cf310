package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/imaps/backend/internal/infrastructure/persistence/models"
)

// GormUsageRecordRepository implements UsageRecordRepository using GORM.
// Like batches, ingredient and packaging usage records live in separate
// tables sharing one shape.
type GormUsageRecordRepository struct {
	db *gorm.DB
}

// NewGormUsageRecordRepository creates a new GormUsageRecordRepository
func NewGormUsageRecordRepository(db *gorm.DB) *GormUsageRecordRepository {
	return &GormUsageRecordRepository{db: db}
}

// FindByCode finds a usage record by its generated code
func (r *GormUsageRecordRepository) FindByCode(ctx context.Context, kind inventory.MaterialKind, code string) (*inventory.UsageRecord, error) {
	if kind == inventory.MaterialKindIngredient {
		var model models.IngredientUsageModel
		if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
			return nil, translateNotFound(err)
		}
		return model.ToDomain(), nil
	}

	var model models.PackagingUsageModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindActive lists active usage records, newest usage date first
func (r *GormUsageRecordRepository) FindActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) ([]inventory.UsageRecord, error) {
	query := r.applySearch(
		r.db.WithContext(ctx).Where("active = TRUE"),
		filter,
	)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	query = query.Order("date_used DESC, created_at DESC")

	if kind == inventory.MaterialKindIngredient {
		var rows []models.IngredientUsageModel
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		records := make([]inventory.UsageRecord, len(rows))
		for i := range rows {
			records[i] = *rows[i].ToDomain()
		}
		return records, nil
	}

	var rows []models.PackagingUsageModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]inventory.UsageRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// SumUsedByBatch sums QuantityUsed over active usage records that draw
// from the given batch
func (r *GormUsageRecordRepository) SumUsedByBatch(ctx context.Context, kind inventory.MaterialKind, batchID uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Select("COALESCE(SUM(quantity_used), 0)").
		Where("batch_id = ? AND active = TRUE", batchID)
	if kind == inventory.MaterialKindIngredient {
		query = query.Model(&models.IngredientUsageModel{})
	} else {
		query = query.Model(&models.PackagingUsageModel{})
	}

	var total decimal.Decimal
	if err := query.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates or updates a usage record. A duplicate code fails with
// shared.ErrAlreadyExists.
func (r *GormUsageRecordRepository) Save(ctx context.Context, record *inventory.UsageRecord) error {
	var err error
	if record.Kind == inventory.MaterialKindIngredient {
		model := &models.IngredientUsageModel{}
		model.FromDomain(record)
		err = r.db.WithContext(ctx).Save(model).Error
	} else {
		model := &models.PackagingUsageModel{}
		model.FromDomain(record)
		err = r.db.WithContext(ctx).Save(model).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CountActive counts active usage records matching the filter
func (r *GormUsageRecordRepository) CountActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) (int64, error) {
	query := r.applySearch(
		r.db.WithContext(ctx).Where("active = TRUE"),
		filter,
	)

	var count int64
	var err error
	if kind == inventory.MaterialKindIngredient {
		err = query.Model(&models.IngredientUsageModel{}).Count(&count).Error
	} else {
		err = query.Model(&models.PackagingUsageModel{}).Count(&count).Error
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUsageRecordRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("material_name ILIKE ? OR code ILIKE ? OR batch_code ILIKE ?",
			pattern, pattern, pattern)
	}
	return query
}

// Ensure GormUsageRecordRepository implements UsageRecordRepository
var _ inventory.UsageRecordRepository = (*GormUsageRecordRepository)(nil)
