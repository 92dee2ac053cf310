package partner

import (
	"time"

	"github.com/imaps/backend/internal/domain/partner"
)

// CreateSupplierRequest represents a request to register a supplier
type CreateSupplierRequest struct {
	Code          string   `json:"code" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category" binding:"required,oneof=Ingredient Packaging Both"`
	SocialMedia   []string `json:"social_media"`
	EmailAddress  []string `json:"email_address"`
	ContactNumber []string `json:"contact_number"`
	PointPerson   string   `json:"point_person"`
}

// UpdateSupplierRequest represents a request to update a supplier.
// Nil fields are left unchanged.
type UpdateSupplierRequest struct {
	Name          *string   `json:"name"`
	Category      *string   `json:"category" binding:"omitempty,oneof=Ingredient Packaging Both"`
	SocialMedia   *[]string `json:"social_media"`
	EmailAddress  *[]string `json:"email_address"`
	ContactNumber *[]string `json:"contact_number"`
	PointPerson   *string   `json:"point_person"`
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=Ingredient Packaging Both"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	SocialMedia   []string  `json:"social_media"`
	EmailAddress  []string  `json:"email_address"`
	ContactNumber []string  `json:"contact_number"`
	PointPerson   string    `json:"point_person"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a domain supplier to a response DTO
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		Code:          s.Code,
		Name:          s.Name,
		Category:      s.Category.String(),
		SocialMedia:   partner.ContactList(s.SocialMedia),
		EmailAddress:  partner.ContactList(s.EmailAddress),
		ContactNumber: partner.ContactList(s.ContactNumber),
		PointPerson:   s.PointPerson,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of domain suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out
}
