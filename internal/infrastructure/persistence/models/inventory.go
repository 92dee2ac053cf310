package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imaps/backend/internal/domain/inventory"
)

// IngredientBatchModel is the persistence model for ingredient batches.
// Seq is a bigserial assigned by the database on insert and serves as the
// FIFO tie-break for batches delivered the same day.
type IngredientBatchModel struct {
	BaseModel
	Seq            int64           `gorm:"autoIncrement;uniqueIndex:idx_ingredient_batches_seq"`
	Code           string          `gorm:"size:64;not null;uniqueIndex:idx_ingredient_batches_code"`
	SupplierCode   string          `gorm:"size:64;not null;index:idx_ingredient_batches_supplier"`
	MaterialName   string          `gorm:"size:255;not null;index:idx_ingredient_batches_material"`
	QuantityBought decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityLeft   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UseCategory    string          `gorm:"size:8;not null"`
	DateDelivered  time.Time       `gorm:"not null;index:idx_ingredient_batches_delivered"`
	ExpirationDate *time.Time
	Status         string          `gorm:"size:32;not null"`
	Cost           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true;index:idx_ingredient_batches_active"`
}

// TableName returns the table name for GORM
func (IngredientBatchModel) TableName() string {
	return "ingredient_batches"
}

// ToDomain converts the persistence model to a domain Batch entity.
func (m *IngredientBatchModel) ToDomain() *inventory.Batch {
	return &inventory.Batch{
		BaseEntity:     m.BaseModel.ToDomain(),
		Seq:            m.Seq,
		Kind:           inventory.MaterialKindIngredient,
		Code:           m.Code,
		SupplierCode:   m.SupplierCode,
		MaterialName:   m.MaterialName,
		QuantityBought: m.QuantityBought,
		QuantityLeft:   m.QuantityLeft,
		UseCategory:    inventory.UseCategory(m.UseCategory),
		DateDelivered:  m.DateDelivered,
		ExpirationDate: m.ExpirationDate,
		Status:         inventory.Status(m.Status),
		Cost:           m.Cost,
		Active:         m.Active,
	}
}

// FromDomain populates the persistence model from a domain Batch entity.
func (m *IngredientBatchModel) FromDomain(b *inventory.Batch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Seq = b.Seq
	m.Code = b.Code
	m.SupplierCode = b.SupplierCode
	m.MaterialName = b.MaterialName
	m.QuantityBought = b.QuantityBought
	m.QuantityLeft = b.QuantityLeft
	m.UseCategory = string(b.UseCategory)
	m.DateDelivered = b.DateDelivered
	m.ExpirationDate = b.ExpirationDate
	m.Status = string(b.Status)
	m.Cost = b.Cost
	m.Active = b.Active
}

// PackagingBatchModel is the persistence model for packaging batches.
// It mirrors IngredientBatchModel but carries a container size instead of
// an expiration date.
type PackagingBatchModel struct {
	BaseModel
	Seq            int64           `gorm:"autoIncrement;uniqueIndex:idx_packaging_batches_seq"`
	Code           string          `gorm:"size:64;not null;uniqueIndex:idx_packaging_batches_code"`
	SupplierCode   string          `gorm:"size:64;not null;index:idx_packaging_batches_supplier"`
	MaterialName   string          `gorm:"size:255;not null;index:idx_packaging_batches_material"`
	ContainerSize  string          `gorm:"size:64;not null"`
	QuantityBought decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityLeft   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UseCategory    string          `gorm:"size:8;not null"`
	DateDelivered  time.Time       `gorm:"not null;index:idx_packaging_batches_delivered"`
	Status         string          `gorm:"size:32;not null"`
	Cost           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true;index:idx_packaging_batches_active"`
}

// TableName returns the table name for GORM
func (PackagingBatchModel) TableName() string {
	return "packaging_batches"
}

// ToDomain converts the persistence model to a domain Batch entity.
func (m *PackagingBatchModel) ToDomain() *inventory.Batch {
	return &inventory.Batch{
		BaseEntity:     m.BaseModel.ToDomain(),
		Seq:            m.Seq,
		Kind:           inventory.MaterialKindPackaging,
		Code:           m.Code,
		SupplierCode:   m.SupplierCode,
		MaterialName:   m.MaterialName,
		ContainerSize:  m.ContainerSize,
		QuantityBought: m.QuantityBought,
		QuantityLeft:   m.QuantityLeft,
		UseCategory:    inventory.UseCategory(m.UseCategory),
		DateDelivered:  m.DateDelivered,
		Status:         inventory.Status(m.Status),
		Cost:           m.Cost,
		Active:         m.Active,
	}
}

// FromDomain populates the persistence model from a domain Batch entity.
func (m *PackagingBatchModel) FromDomain(b *inventory.Batch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Seq = b.Seq
	m.Code = b.Code
	m.SupplierCode = b.SupplierCode
	m.MaterialName = b.MaterialName
	m.ContainerSize = b.ContainerSize
	m.QuantityBought = b.QuantityBought
	m.QuantityLeft = b.QuantityLeft
	m.UseCategory = string(b.UseCategory)
	m.DateDelivered = b.DateDelivered
	m.Status = string(b.Status)
	m.Cost = b.Cost
	m.Active = b.Active
}

// IngredientUsageModel is the persistence model for ingredient usage records.
type IngredientUsageModel struct {
	BaseModel
	Code         string          `gorm:"size:64;not null;uniqueIndex:idx_ingredient_usages_code"`
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_ingredient_usages_batch"`
	BatchCode    string          `gorm:"size:64;not null"`
	MaterialName string          `gorm:"size:255;not null;index:idx_ingredient_usages_material"`
	UseCategory  string          `gorm:"size:8;not null"`
	QuantityUsed decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DateUsed     time.Time       `gorm:"not null;index:idx_ingredient_usages_date"`
	Active       bool            `gorm:"not null;default:true;index:idx_ingredient_usages_active"`
}

// TableName returns the table name for GORM
func (IngredientUsageModel) TableName() string {
	return "ingredient_usages"
}

// ToDomain converts the persistence model to a domain UsageRecord entity.
func (m *IngredientUsageModel) ToDomain() *inventory.UsageRecord {
	return &inventory.UsageRecord{
		BaseEntity:   m.BaseModel.ToDomain(),
		Kind:         inventory.MaterialKindIngredient,
		Code:         m.Code,
		BatchID:      m.BatchID,
		BatchCode:    m.BatchCode,
		MaterialName: m.MaterialName,
		UseCategory:  inventory.UseCategory(m.UseCategory),
		QuantityUsed: m.QuantityUsed,
		DateUsed:     m.DateUsed,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain UsageRecord entity.
func (m *IngredientUsageModel) FromDomain(u *inventory.UsageRecord) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Code = u.Code
	m.BatchID = u.BatchID
	m.BatchCode = u.BatchCode
	m.MaterialName = u.MaterialName
	m.UseCategory = string(u.UseCategory)
	m.QuantityUsed = u.QuantityUsed
	m.DateUsed = u.DateUsed
	m.Active = u.Active
}

// PackagingUsageModel is the persistence model for packaging usage records.
type PackagingUsageModel struct {
	BaseModel
	Code         string          `gorm:"size:64;not null;uniqueIndex:idx_packaging_usages_code"`
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_packaging_usages_batch"`
	BatchCode    string          `gorm:"size:64;not null"`
	MaterialName string          `gorm:"size:255;not null;index:idx_packaging_usages_material"`
	UseCategory  string          `gorm:"size:8;not null"`
	QuantityUsed decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DateUsed     time.Time       `gorm:"not null;index:idx_packaging_usages_date"`
	Active       bool            `gorm:"not null;default:true;index:idx_packaging_usages_active"`
}

// TableName returns the table name for GORM
func (PackagingUsageModel) TableName() string {
	return "packaging_usages"
}

// ToDomain converts the persistence model to a domain UsageRecord entity.
func (m *PackagingUsageModel) ToDomain() *inventory.UsageRecord {
	return &inventory.UsageRecord{
		BaseEntity:   m.BaseModel.ToDomain(),
		Kind:         inventory.MaterialKindPackaging,
		Code:         m.Code,
		BatchID:      m.BatchID,
		BatchCode:    m.BatchCode,
		MaterialName: m.MaterialName,
		UseCategory:  inventory.UseCategory(m.UseCategory),
		QuantityUsed: m.QuantityUsed,
		DateUsed:     m.DateUsed,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain UsageRecord entity.
func (m *PackagingUsageModel) FromDomain(u *inventory.UsageRecord) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Code = u.Code
	m.BatchID = u.BatchID
	m.BatchCode = u.BatchCode
	m.MaterialName = u.MaterialName
	m.UseCategory = string(u.UseCategory)
	m.QuantityUsed = u.QuantityUsed
	m.DateUsed = u.DateUsed
	m.Active = u.Active
}
