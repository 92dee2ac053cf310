package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/imaps/backend/internal/infrastructure/persistence/models"
)

// GormBatchRepository implements BatchRepository using GORM. Ingredient
// and packaging batches share one record shape but live in separate
// tables, so every method switches on the material kind.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByCode finds a batch by its generated code
func (r *GormBatchRepository) FindByCode(ctx context.Context, kind inventory.MaterialKind, code string) (*inventory.Batch, error) {
	return r.findByCode(ctx, r.db, kind, code)
}

// FindByCodeForUpdate finds a batch by code while holding a row lock for
// the remainder of the enclosing transaction
func (r *GormBatchRepository) FindByCodeForUpdate(ctx context.Context, kind inventory.MaterialKind, code string) (*inventory.Batch, error) {
	locked := r.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findByCode(ctx, locked, kind, code)
}

func (r *GormBatchRepository) findByCode(ctx context.Context, db *gorm.DB, kind inventory.MaterialKind, code string) (*inventory.Batch, error) {
	if kind == inventory.MaterialKindIngredient {
		var model models.IngredientBatchModel
		if err := db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
			return nil, translateNotFound(err)
		}
		return model.ToDomain(), nil
	}

	var model models.PackagingBatchModel
	if err := db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindActive lists active batches, newest delivery first with newest
// insertion first for same-day entries
func (r *GormBatchRepository) FindActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) ([]inventory.Batch, error) {
	query := r.applySearch(
		r.db.WithContext(ctx).Where("active = TRUE"),
		filter,
	)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	query = query.Order("date_delivered DESC, seq DESC")

	return r.findBatches(query, kind)
}

// FindAllocationCandidatesForUpdate finds the active batches of the same
// material with stock remaining, excluding the given batch, oldest
// delivery first then insertion order. Every returned row is locked for
// the remainder of the enclosing transaction.
func (r *GormBatchRepository) FindAllocationCandidatesForUpdate(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]inventory.Batch, error) {
	query := r.sameMaterial(ctx, kind, materialName, containerSize).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id <> ?", exclude).
		Where("quantity_left > 0").
		Order("date_delivered ASC, seq ASC")

	return r.findBatches(query, kind)
}

// FindActiveSiblings finds the active batches sharing a material
// identity, excluding the given batch
func (r *GormBatchRepository) FindActiveSiblings(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]inventory.Batch, error) {
	query := r.sameMaterial(ctx, kind, materialName, containerSize).
		Where("id <> ?", exclude).
		Order("date_delivered ASC, seq ASC")

	return r.findBatches(query, kind)
}

// Save creates or updates a batch. A duplicate code fails with
// shared.ErrAlreadyExists.
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	var err error
	if batch.Kind == inventory.MaterialKindIngredient {
		model := &models.IngredientBatchModel{}
		model.FromDomain(batch)
		err = r.db.WithContext(ctx).Save(model).Error
		if err == nil {
			batch.Seq = model.Seq
		}
	} else {
		model := &models.PackagingBatchModel{}
		model.FromDomain(batch)
		err = r.db.WithContext(ctx).Save(model).Error
		if err == nil {
			batch.Seq = model.Seq
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CountActive counts active batches matching the filter
func (r *GormBatchRepository) CountActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) (int64, error) {
	query := r.applySearch(
		r.db.WithContext(ctx).Where("active = TRUE"),
		filter,
	)

	var count int64
	var err error
	if kind == inventory.MaterialKindIngredient {
		err = query.Model(&models.IngredientBatchModel{}).Count(&count).Error
	} else {
		err = query.Model(&models.PackagingBatchModel{}).Count(&count).Error
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// sameMaterial builds the active-batch query restricted to a material
// identity. Container size participates only for packaging, where two
// sizes of the same material are distinct stock lines.
func (r *GormBatchRepository) sameMaterial(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string) *gorm.DB {
	query := r.db.WithContext(ctx).
		Where("active = TRUE").
		Where("material_name = ?", materialName)
	if kind.HasContainerSize() {
		query = query.Where("container_size = ?", containerSize)
	}
	return query
}

func (r *GormBatchRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("material_name ILIKE ? OR code ILIKE ? OR supplier_code ILIKE ?",
			pattern, pattern, pattern)
	}
	return query
}

func (r *GormBatchRepository) findBatches(query *gorm.DB, kind inventory.MaterialKind) ([]inventory.Batch, error) {
	if kind == inventory.MaterialKindIngredient {
		var rows []models.IngredientBatchModel
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		batches := make([]inventory.Batch, len(rows))
		for i := range rows {
			batches[i] = *rows[i].ToDomain()
		}
		return batches, nil
	}

	var rows []models.PackagingBatchModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	batches := make([]inventory.Batch, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches, nil
}

// translateNotFound maps GORM's record-not-found to the domain sentinel
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
