package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusBatch(t *testing.T, bought, left float64, expiry *time.Time) *Batch {
	t.Helper()
	b := &Batch{
		QuantityBought: decimal.NewFromFloat(bought),
		QuantityLeft:   decimal.NewFromFloat(left),
		ExpirationDate: expiry,
	}
	return b
}

func TestComputeStatus_Ingredients(t *testing.T) {
	thresholds := DefaultStatusThresholds()
	today := date(2024, 6, 1)

	t.Run("expiring exactly 30 days out", func(t *testing.T) {
		expiry := today.AddDate(0, 0, 30)
		b := statusBatch(t, 100, 100, &expiry)
		assert.Equal(t, StatusExpiring, ComputeStatus(b, today, thresholds))
	})

	t.Run("expiring 31 days out is not expiring", func(t *testing.T) {
		expiry := today.AddDate(0, 0, 31)
		b := statusBatch(t, 100, 100, &expiry)
		assert.Equal(t, StatusOK, ComputeStatus(b, today, thresholds))
	})

	t.Run("already expired counts as expiring", func(t *testing.T) {
		expiry := today.AddDate(0, 0, -5)
		b := statusBatch(t, 100, 100, &expiry)
		assert.Equal(t, StatusExpiring, ComputeStatus(b, today, thresholds))
	})

	t.Run("exactly 10 units left is OK", func(t *testing.T) {
		expiry := today.AddDate(1, 0, 0)
		b := statusBatch(t, 100, 10, &expiry)
		assert.Equal(t, StatusOK, ComputeStatus(b, today, thresholds))
	})

	t.Run("below 10 units is low inventory", func(t *testing.T) {
		expiry := today.AddDate(1, 0, 0)
		b := statusBatch(t, 100, 9.5, &expiry)
		assert.Equal(t, StatusLowInventory, ComputeStatus(b, today, thresholds))
	})

	t.Run("expiring wins over low quantity", func(t *testing.T) {
		expiry := today.AddDate(0, 0, 10)
		b := statusBatch(t, 100, 2, &expiry)
		assert.Equal(t, StatusExpiring, ComputeStatus(b, today, thresholds))
	})
}

func TestComputeStatus_Packaging(t *testing.T) {
	thresholds := DefaultStatusThresholds()
	today := date(2024, 6, 1)

	t.Run("exactly 15 percent left is OK", func(t *testing.T) {
		b := statusBatch(t, 100, 15, nil)
		assert.Equal(t, StatusOK, ComputeStatus(b, today, thresholds))
	})

	t.Run("just below 15 percent is low inventory", func(t *testing.T) {
		b := statusBatch(t, 100000, 14999, nil)
		assert.Equal(t, StatusLowInventory, ComputeStatus(b, today, thresholds))
	})

	t.Run("zero bought is low inventory", func(t *testing.T) {
		b := statusBatch(t, 0, 0, nil)
		assert.Equal(t, StatusLowInventory, ComputeStatus(b, today, thresholds))
	})

	t.Run("full stock is OK", func(t *testing.T) {
		b := statusBatch(t, 200, 200, nil)
		assert.Equal(t, StatusOK, ComputeStatus(b, today, thresholds))
	})
}

func TestBatch_RecomputeStatus(t *testing.T) {
	today := date(2024, 6, 1)
	expiry := today.AddDate(1, 0, 0)
	b, err := NewIngredientBatch("SUP-1", "Rose Water", decimal.NewFromInt(100), UseCategoryA, today, expiry, decimal.NewFromInt(40))
	require.NoError(t, err)

	b.RecomputeStatus(today, DefaultStatusThresholds())
	assert.Equal(t, StatusOK, b.Status)

	b.QuantityLeft = decimal.NewFromInt(3)
	b.RecomputeStatus(today, DefaultStatusThresholds())
	assert.Equal(t, StatusLowInventory, b.Status)
}
