package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
)

func newMockReportRepository(t *testing.T) (*GormReportRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormReportRepository(gormDB), mock, mockDB
}

func TestGormReportRepository_SumQuantityLeft(t *testing.T) {
	t.Run("ingredient sum restricted to categories", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity_left\), 0\) FROM "ingredient_batches" WHERE active = TRUE AND material_name = \$1 AND use_category IN \(\$2,\$3\)`).
			WithArgs("Red Wheat Flour", "A", "Both").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("130"))

		total, err := repo.SumQuantityLeft(context.Background(),
			inventory.MaterialKindIngredient, "Red Wheat Flour", "",
			[]inventory.UseCategory{inventory.UseCategoryA, inventory.UseCategoryBoth})

		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(130)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("packaging sum matches on container size", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity_left\), 0\) FROM "packaging_batches" WHERE active = TRUE AND material_name = \$1 AND use_category IN \(\$2\) AND container_size = \$3`).
			WithArgs("Pickle Jar", "Both", "S").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("12"))

		total, err := repo.SumQuantityLeft(context.Background(),
			inventory.MaterialKindPackaging, "Pickle Jar", "S",
			[]inventory.UseCategory{inventory.UseCategoryBoth})

		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(12)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReportRepository_UsageTotals(t *testing.T) {
	repo, mock, mockDB := newMockReportRepository(t)
	defer mockDB.Close()

	window := shared.DateRange{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery(`SELECT material_name, COALESCE\(SUM\(quantity_used\), 0\) AS total_used FROM "ingredient_usages" WHERE active = TRUE AND \(date_used >= \$1 AND date_used <= \$2\) GROUP BY "material_name" ORDER BY material_name ASC`).
		WithArgs(window.Start, window.End).
		WillReturnRows(sqlmock.NewRows([]string{"material_name", "total_used"}).
			AddRow("Red Wheat Flour", "45").
			AddRow("Sea Salt", "3.5"))

	totals, err := repo.UsageTotals(context.Background(), inventory.MaterialKindIngredient, window)

	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Red Wheat Flour", totals[0].MaterialName)
	assert.True(t, totals[0].TotalUsed.Equal(decimal.NewFromInt(45)))
	assert.True(t, totals[1].TotalUsed.Equal(decimal.RequireFromString("3.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReportRepository_ExpiryTotals(t *testing.T) {
	repo, mock, mockDB := newMockReportRepository(t)
	defer mockDB.Close()

	window := shared.DateRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery(`SELECT material_name,\s+COALESCE\(SUM\(CASE WHEN expiration_date >= \$1 AND expiration_date <= \$2 THEN quantity_left ELSE 0 END\), 0\) AS expired_quantity,\s+COALESCE\(SUM\(CASE WHEN expiration_date < \$3 OR expiration_date > \$4 THEN quantity_left ELSE 0 END\), 0\) AS remaining_quantity FROM "ingredient_batches"`).
		WithArgs(window.Start, window.End, window.Start, window.End, window.Start, window.End).
		WillReturnRows(sqlmock.NewRows([]string{"material_name", "expired_quantity", "remaining_quantity"}).
			AddRow("Red Wheat Flour", "30", "100"))

	totals, err := repo.ExpiryTotals(context.Background(), window)

	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "Red Wheat Flour", totals[0].MaterialName)
	assert.True(t, totals[0].ExpiredQuantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, totals[0].RemainingQuantity.Equal(decimal.NewFromInt(100)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
