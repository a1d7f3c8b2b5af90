package datagen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEndDate = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateSameSeedIsDeterministic(t *testing.T) {
	first := New(42).Generate(testEndDate, 14, 2)
	second := New(42).Generate(testEndDate, 14, 2)

	assert.Equal(t, first, second)
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	first := New(1).Generate(testEndDate, 14, 1)
	second := New(2).Generate(testEndDate, 14, 1)

	assert.NotEqual(t, first, second)
}

func TestGenerateRowCountAndCoverage(t *testing.T) {
	nDays, nStores := 10, 3
	rows := New(7).Generate(testEndDate, nDays, nStores)

	productCount := 0
	for _, entry := range catalog {
		productCount += len(entry.products)
	}
	require.Len(t, rows, nDays*nStores*productCount)

	stores := make(map[int]bool)
	categories := make(map[string]bool)
	for _, row := range rows {
		stores[row.StoreID] = true
		categories[row.Category] = true
	}
	assert.Len(t, stores, nStores)
	assert.Len(t, categories, len(catalog))
}

func TestGenerateInvariants(t *testing.T) {
	rows := New(7).Generate(testEndDate, 30, 2)

	for _, row := range rows {
		assert.GreaterOrEqual(t, row.Waste, 0.0)
		assert.GreaterOrEqual(t, row.Stock, 0.0)
		assert.GreaterOrEqual(t, row.Sales, 0.0)
		assert.GreaterOrEqual(t, row.WastePercentage, 0.0)
		assert.LessOrEqual(t, row.WastePercentage, 100.0)

		assert.Equal(t, mondayIndexed(row.Date.Weekday()), row.DayOfWeek)
		assert.Equal(t, shelfLifeDays[row.Category], row.ShelfLifeDays)
		assert.Equal(t, perishableCategories[row.Category], row.Perishable)

		assert.True(t, row.Date.Before(testEndDate))
	}
}

func TestMondayIndexed(t *testing.T) {
	assert.Equal(t, 0, mondayIndexed(time.Monday))
	assert.Equal(t, 4, mondayIndexed(time.Friday))
	assert.Equal(t, 5, mondayIndexed(time.Saturday))
	assert.Equal(t, 6, mondayIndexed(time.Sunday))
}
