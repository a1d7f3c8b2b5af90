package features

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfaware/wastewatch/internal/domain"
)

func makeLedger(nDays, nStores int) []domain.SalesObservation {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []struct {
		name     string
		category string
	}{
		{"Milk", "Dairy"},
		{"Bread", "Bakery"},
	}

	rng := rand.New(rand.NewSource(7))
	var rows []domain.SalesObservation
	for store := 1; store <= nStores; store++ {
		for day := 0; day < nDays; day++ {
			date := base.AddDate(0, 0, day)
			for _, p := range products {
				stock := 100 + 50*rng.Float64()
				sales := stock * rng.Float64()
				waste := stock - sales
				rows = append(rows, domain.SalesObservation{
					Date:            date,
					StoreID:         store,
					Category:        p.category,
					Product:         p.name,
					Sales:           sales,
					Stock:           stock,
					Waste:           waste,
					WastePercentage: waste / stock * 100,
					Price:           3.5,
					DayOfWeek:       (int(date.Weekday()) + 6) % 7,
					ShelfLifeDays:   7,
					Perishable:      true,
				})
			}
		}
	}
	return rows
}

func TestEngineerFeaturesEmptyInput(t *testing.T) {
	_, err := NewPipeline().EngineerFeatures(nil)
	assert.Error(t, err)
}

func TestEngineerFeaturesDeterministic(t *testing.T) {
	obs := makeLedger(10, 2)
	p := NewPipeline()

	first, err := p.EngineerFeatures(obs)
	require.NoError(t, err)
	second, err := p.EngineerFeatures(obs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngineerFeaturesShuffleInvariant(t *testing.T) {
	obs := makeLedger(10, 2)
	shuffled := make([]domain.SalesObservation, len(obs))
	copy(shuffled, obs)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	p := NewPipeline()
	fromSorted, err := p.EngineerFeatures(obs)
	require.NoError(t, err)
	fromShuffled, err := p.EngineerFeatures(shuffled)
	require.NoError(t, err)

	assert.Equal(t, fromSorted, fromShuffled)
}

func TestFeatureColumnsContract(t *testing.T) {
	want := []string{
		"sales", "stock", "waste", "waste_percentage", "price",
		"day_of_week", "is_weekend", "day_sin", "day_cos",
		"month_sin", "month_cos", "shelf_life_days",
		"sales_rolling_mean_7d", "sales_rolling_std_7d",
		"sales_rolling_mean_14d", "sales_rolling_std_14d",
		"waste_rolling_mean_7d", "waste_rolling_mean_14d",
		"sales_stock_ratio", "sales_deviation_7d", "waste_efficiency",
		"product_sales_mean", "product_sales_std", "product_waste_mean",
		"store_sales_mean", "store_waste_mean",
	}

	assert.Equal(t, want, NewPipeline().FeatureColumns())
}

func TestMatrixShapeAndFiniteness(t *testing.T) {
	obs := makeLedger(5, 1)
	// Zero stock must not produce NaN or Inf anywhere in the matrix.
	obs[0].Stock = 0
	obs[0].Sales = 0
	obs[0].Waste = 0
	obs[0].WastePercentage = 0

	p := NewPipeline()
	rows, err := p.EngineerFeatures(obs)
	require.NoError(t, err)

	matrix := p.Matrix(rows)
	require.Len(t, matrix, len(rows))
	cols := p.FeatureColumns()
	for i, row := range matrix {
		require.Len(t, row, len(cols), "row %d", i)
		for j, v := range row {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0),
				"row %d column %s is not finite", i, cols[j])
		}
	}
}

func TestAggregateJoin(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	obs := []domain.SalesObservation{
		{Date: base, StoreID: 1, Product: "Milk", Category: "Dairy", Sales: 10, Stock: 20, WastePercentage: 10},
		{Date: base, StoreID: 2, Product: "Milk", Category: "Dairy", Sales: 30, Stock: 40, WastePercentage: 30},
		{Date: base, StoreID: 1, Product: "Bread", Category: "Bakery", Sales: 50, Stock: 60, WastePercentage: 50},
	}

	rows, err := NewPipeline().EngineerFeatures(obs)
	require.NoError(t, err)

	for i := range rows {
		row := &rows[i]
		switch row.Product {
		case "Milk":
			assert.InDelta(t, 20, row.Aggregate.ProductSalesMean, 1e-9)
			assert.InDelta(t, 20, row.Aggregate.ProductWasteMean, 1e-9)
			require.NotNil(t, row.Aggregate.ProductSalesStd)
			// Sample std of {10, 30} is sqrt(200).
			assert.InDelta(t, math.Sqrt(200), *row.Aggregate.ProductSalesStd, 1e-9)
		case "Bread":
			assert.Nil(t, row.Aggregate.ProductSalesStd)
		}

		switch row.StoreID {
		case 1:
			assert.InDelta(t, 30, row.Aggregate.StoreSalesMean, 1e-9)
		case 2:
			assert.InDelta(t, 30, row.Aggregate.StoreSalesMean, 1e-9)
			assert.InDelta(t, 30, row.Aggregate.StoreWasteMean, 1e-9)
		}
	}
}
