package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	t.Run("creates active supplier with trimmed fields", func(t *testing.T) {
		s, err := NewSupplier("  SUP-001 ", " Lotus Farms ", SupplierCategoryIngredient)
		require.NoError(t, err)
		assert.Equal(t, "SUP-001", s.Code)
		assert.Equal(t, "Lotus Farms", s.Name)
		assert.Equal(t, SupplierCategoryIngredient, s.Category)
		assert.True(t, s.Active)
		assert.NotEqual(t, uuid.Nil, s.ID)
	})

	t.Run("rejects blank code and name", func(t *testing.T) {
		_, err := NewSupplier("  ", "", SupplierCategoryBoth)
		var validation *shared.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "code")
		assert.Contains(t, validation.Fields, "name")
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewSupplier("SUP-002", "Glass Co", SupplierCategory("Hardware"))
		var validation *shared.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "category")
	})
}

func TestSupplierCategory(t *testing.T) {
	assert.True(t, SupplierCategoryIngredient.SuppliesIngredients())
	assert.False(t, SupplierCategoryIngredient.SuppliesPackaging())
	assert.True(t, SupplierCategoryPackaging.SuppliesPackaging())
	assert.False(t, SupplierCategoryPackaging.SuppliesIngredients())
	assert.True(t, SupplierCategoryBoth.SuppliesIngredients())
	assert.True(t, SupplierCategoryBoth.SuppliesPackaging())
	assert.False(t, SupplierCategory("Misc").IsValid())
}

func TestSupplierDeactivate(t *testing.T) {
	s, err := NewSupplier("SUP-003", "Amber Traders", SupplierCategoryPackaging)
	require.NoError(t, err)
	s.Deactivate()
	assert.False(t, s.Active)
}

func TestContactHelpers(t *testing.T) {
	t.Run("split tolerates mixed separators and blanks", func(t *testing.T) {
		got := ContactList("a@x.com; b@x.com ,, ; c@x.com")
		assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, got)
	})

	t.Run("join drops empties", func(t *testing.T) {
		assert.Equal(t, "0917; 0918", JoinContacts([]string{" 0917", "", "0918 "}))
	})

	t.Run("round trip", func(t *testing.T) {
		values := []string{"@lotus", "@farms"}
		assert.Equal(t, values, ContactList(JoinContacts(values)))
	})
}
