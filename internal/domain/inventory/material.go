package inventory

// MaterialKind distinguishes the two raw-material families. They share one
// record shape but live in separate tables and differ in whether an
// expiration date and container size are tracked.
type MaterialKind string

const (
	MaterialKindIngredient MaterialKind = "ingredient"
	MaterialKindPackaging  MaterialKind = "packaging"
)

// IsValid checks if the kind is one of the known values
func (k MaterialKind) IsValid() bool {
	return k == MaterialKindIngredient || k == MaterialKindPackaging
}

// String returns the string representation
func (k MaterialKind) String() string {
	return string(k)
}

// HasExpiry reports whether batches of this kind carry an expiration date
func (k MaterialKind) HasExpiry() bool {
	return k == MaterialKindIngredient
}

// HasContainerSize reports whether batches of this kind carry a container size
func (k MaterialKind) HasContainerSize() bool {
	return k == MaterialKindPackaging
}

// UseCategory tags a batch with the production line it was bought for.
// "Both" stock is shared between the two lines.
type UseCategory string

const (
	UseCategoryA    UseCategory = "A"
	UseCategoryB    UseCategory = "B"
	UseCategoryBoth UseCategory = "Both"
)

// IsValid checks if the category is one of the known values
func (c UseCategory) IsValid() bool {
	switch c {
	case UseCategoryA, UseCategoryB, UseCategoryBoth:
		return true
	}
	return false
}

// String returns the string representation
func (c UseCategory) String() string {
	return string(c)
}

// EligibleFor reports whether a batch tagged with this category may serve a
// consumption request of the given category. A and B requests may draw from
// their own line or from shared stock; Both requests draw only from shared
// stock.
func (c UseCategory) EligibleFor(request UseCategory) bool {
	if request == UseCategoryBoth {
		return c == UseCategoryBoth
	}
	return c == request || c == UseCategoryBoth
}

// DrawsFrom lists the batch categories a request of this category may draw
// from, the inverse view of EligibleFor.
func (c UseCategory) DrawsFrom() []UseCategory {
	if c == UseCategoryBoth {
		return []UseCategory{UseCategoryBoth}
	}
	return []UseCategory{c, UseCategoryBoth}
}
