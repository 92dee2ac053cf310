package models

import (
	"github.com/imaps/backend/internal/domain/partner"
)

// SupplierModel is the persistence model for the Supplier entity.
type SupplierModel struct {
	BaseModel
	Code          string `gorm:"size:64;not null;uniqueIndex:idx_suppliers_code"`
	Name          string `gorm:"size:255;not null"`
	Category      string `gorm:"size:16;not null;index:idx_suppliers_category"`
	SocialMedia   string `gorm:"size:512"`
	EmailAddress  string `gorm:"size:512"`
	ContactNumber string `gorm:"size:512"`
	PointPerson   string `gorm:"size:255"`
	Active        bool   `gorm:"not null;default:true;index:idx_suppliers_active"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseEntity:    m.BaseModel.ToDomain(),
		Code:          m.Code,
		Name:          m.Name,
		Category:      partner.SupplierCategory(m.Category),
		SocialMedia:   m.SocialMedia,
		EmailAddress:  m.EmailAddress,
		ContactNumber: m.ContactNumber,
		PointPerson:   m.PointPerson,
		Active:        m.Active,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Code = s.Code
	m.Name = s.Name
	m.Category = string(s.Category)
	m.SocialMedia = s.SocialMedia
	m.EmailAddress = s.EmailAddress
	m.ContactNumber = s.ContactNumber
	m.PointPerson = s.PointPerson
	m.Active = s.Active
}

// SupplierModelFromDomain creates a persistence model from a domain entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
