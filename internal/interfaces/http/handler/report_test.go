package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/imaps/backend/internal/domain/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_Summary(t *testing.T) {
	f := newInventoryFixture(t)
	oldCode, _ := f.seedFlourBatches(t)

	w := postJSON(t, f.engine, "/api/v1/usages/ingredients", gin.H{
		"batch_code":    oldCode,
		"quantity_used": "12",
		"use_category":  "A",
		"date_used":     "2026-08-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.get(t, "/api/v1/reports/summary?start=2026-08-01&end=2026-08-31")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "2026-08-01", data["start"])
	assert.Equal(t, "2026-08-31", data["end"])

	usage := data["ingredient_usage"].([]interface{})
	require.Len(t, usage, 1)
	row := usage[0].(map[string]interface{})
	assert.Equal(t, "Red Wheat Flour", row["material_name"])
	assert.Equal(t, "12", row["total_used"])
}

func TestReportHandler_Summary_ExpiryWindow(t *testing.T) {
	f := newInventoryFixture(t)
	f.seedFlourBatches(t) // expire 2026-12-01 and 2026-12-15

	w := f.get(t, "/api/v1/reports/summary?start=2026-12-01&end=2026-12-10")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	expiry := resp.Data.(map[string]interface{})["expiry"].([]interface{})
	require.Len(t, expiry, 1)
	row := expiry[0].(map[string]interface{})
	assert.Equal(t, "Red Wheat Flour", row["material_name"])
	assert.Equal(t, "30", row["expired_quantity"])
	assert.Equal(t, "40", row["remaining_quantity"])
}

func TestReportHandler_Summary_BadInput(t *testing.T) {
	f := newInventoryFixture(t)

	t.Run("missing params", func(t *testing.T) {
		w := f.get(t, "/api/v1/reports/summary")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		w := f.get(t, "/api/v1/reports/summary?start=yesterday&end=2026-08-31")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inverted window", func(t *testing.T) {
		w := f.get(t, "/api/v1/reports/summary?start=2026-08-31&end=2026-08-01")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportHandler_AvailableQuantity(t *testing.T) {
	f := newInventoryFixture(t)
	f.seedSupplier(t, "SUP-001", partner.SupplierCategoryIngredient)
	f.createBatch(t, "ingredients", gin.H{
		"supplier_code":   "SUP-001",
		"material_name":   "Red Wheat Flour",
		"quantity_bought": "30",
		"use_category":    "A",
		"date_delivered":  "2026-08-01",
		"expiration_date": "2026-12-01",
	})
	f.createBatch(t, "ingredients", gin.H{
		"supplier_code":   "SUP-001",
		"material_name":   "Red Wheat Flour",
		"quantity_bought": "20",
		"use_category":    "Both",
		"date_delivered":  "2026-08-02",
		"expiration_date": "2026-12-01",
	})
	f.createBatch(t, "ingredients", gin.H{
		"supplier_code":   "SUP-001",
		"material_name":   "Red Wheat Flour",
		"quantity_bought": "15",
		"use_category":    "B",
		"date_delivered":  "2026-08-03",
		"expiration_date": "2026-12-01",
	})

	tests := []struct {
		category string
		expected string
	}{
		{"A", "50"},    // own stock plus shared
		{"B", "35"},    // own stock plus shared
		{"Both", "20"}, // shared stock only
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			w := f.get(t, "/api/v1/reports/available?kind=ingredients&material_name=Red+Wheat+Flour&use_category="+tt.category)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.expected, resp.Data.(map[string]interface{})["available"])
		})
	}

	t.Run("missing material name", func(t *testing.T) {
		w := f.get(t, "/api/v1/reports/available?kind=ingredients&use_category=A")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad category", func(t *testing.T) {
		w := f.get(t, "/api/v1/reports/available?kind=ingredients&material_name=Red+Wheat+Flour&use_category=C")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
