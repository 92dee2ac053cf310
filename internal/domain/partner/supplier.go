package partner

import (
	"strings"

	"github.com/imaps/backend/internal/domain/shared"
)

// SupplierCategory represents the kind of materials a supplier provides
type SupplierCategory string

const (
	SupplierCategoryIngredient SupplierCategory = "Ingredient"
	SupplierCategoryPackaging  SupplierCategory = "Packaging"
	SupplierCategoryBoth       SupplierCategory = "Both"
)

// IsValid checks if the category is one of the known values
func (c SupplierCategory) IsValid() bool {
	switch c {
	case SupplierCategoryIngredient, SupplierCategoryPackaging, SupplierCategoryBoth:
		return true
	}
	return false
}

// String returns the string representation
func (c SupplierCategory) String() string {
	return string(c)
}

// SuppliesIngredients reports whether the supplier can be referenced by
// ingredient batches.
func (c SupplierCategory) SuppliesIngredients() bool {
	return c == SupplierCategoryIngredient || c == SupplierCategoryBoth
}

// SuppliesPackaging reports whether the supplier can be referenced by
// packaging batches.
func (c SupplierCategory) SuppliesPackaging() bool {
	return c == SupplierCategoryPackaging || c == SupplierCategoryBoth
}

// Supplier represents a raw-material supplier. The code is assigned
// externally and is the identifier batches reference.
type Supplier struct {
	shared.BaseEntity
	Code          string
	Name          string
	Category      SupplierCategory
	SocialMedia   string // semicolon-joined handles
	EmailAddress  string // semicolon-joined addresses
	ContactNumber string // semicolon-joined numbers
	PointPerson   string
	Active        bool
}

// NewSupplier creates a new active supplier with required fields
func NewSupplier(code, name string, category SupplierCategory) (*Supplier, error) {
	fields := map[string]string{}
	if strings.TrimSpace(code) == "" {
		fields["code"] = "supplier code is required"
	}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "supplier name is required"
	}
	if !category.IsValid() {
		fields["category"] = "category must be Ingredient, Packaging or Both"
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError(fields)
	}

	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.TrimSpace(code),
		Name:       strings.TrimSpace(name),
		Category:   category,
		Active:     true,
	}, nil
}

// Deactivate soft-deletes the supplier
func (s *Supplier) Deactivate() {
	s.Active = false
	s.Touch()
}

// ContactList splits a semicolon- or comma-joined contact field into a
// clean slice, dropping empty entries.
func ContactList(joined string) []string {
	split := strings.FieldsFunc(joined, func(r rune) bool {
		return r == ';' || r == ','
	})
	out := make([]string, 0, len(split))
	for _, s := range split {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinContacts joins multi-value contact entries into the stored form
func JoinContacts(values []string) string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return strings.Join(clean, "; ")
}
