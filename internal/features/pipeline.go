package features

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shelfaware/wastewatch/internal/domain"
)

// DefaultWindows are the rolling window sizes the scoring engine and the
// external anomaly model were calibrated on.
var DefaultWindows = []int{7, 14}

// Pipeline composes the four feature stages into one ordered run:
// calendar -> rolling -> ratios -> aggregates. The order matters: ratios
// read the rolling output, and the aggregate stage must see the final row
// set, so it always runs last.
type Pipeline struct {
	windows []int
	workers int
}

// NewPipeline builds a pipeline for the given rolling windows. With no
// windows it falls back to DefaultWindows.
func NewPipeline(windows ...int) *Pipeline {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	ws := make([]int, len(windows))
	copy(ws, windows)
	return &Pipeline{
		windows: ws,
		workers: runtime.GOMAXPROCS(0),
	}
}

// Windows returns the configured rolling window sizes.
func (p *Pipeline) Windows() []int {
	ws := make([]int, len(p.windows))
	copy(ws, p.windows)
	return ws
}

// EngineerFeatures turns ledger rows into fully populated feature vectors.
// The output is sorted by (store_id, product, date); callers that need the
// original row order must re-sort. Each call is a pure function of its
// input, so repeated calls with the same rows produce identical output.
func (p *Pipeline) EngineerFeatures(obs []domain.SalesObservation) ([]FeatureVector, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("feature pipeline: empty input table")
	}

	start := time.Now()
	rows := make([]FeatureVector, len(obs))
	for i := range obs {
		rows[i].SalesObservation = obs[i]
		rows[i].Calendar = encodeCalendar(obs[i].DayOfWeek, int(obs[i].Date.Month()))
	}

	if err := applyRollingFeatures(rows, p.windows, p.workers); err != nil {
		return nil, fmt.Errorf("feature pipeline: rolling stage: %w", err)
	}
	applyRatioFeatures(rows)
	applyAggregateFeatures(rows)

	log.Debug().
		Int("rows", len(rows)).
		Ints("windows", p.windows).
		Dur("elapsed", time.Since(start)).
		Msg("engineered features")

	return rows, nil
}

// FeatureColumns is the canonical ordered list of feature names fed to the
// anomaly model. It is part of the public contract: adding, removing or
// reordering entries breaks any externally trained model.
func (p *Pipeline) FeatureColumns() []string {
	cols := []string{
		"sales", "stock", "waste", "waste_percentage", "price",
		"day_of_week", "is_weekend", "day_sin", "day_cos",
		"month_sin", "month_cos", "shelf_life_days",
	}
	for _, w := range p.windows {
		cols = append(cols,
			fmt.Sprintf("sales_rolling_mean_%dd", w),
			fmt.Sprintf("sales_rolling_std_%dd", w),
		)
	}
	for _, w := range p.windows {
		cols = append(cols, fmt.Sprintf("waste_rolling_mean_%dd", w))
	}
	cols = append(cols,
		"sales_stock_ratio", "sales_deviation_7d", "waste_efficiency",
		"product_sales_mean", "product_sales_std", "product_waste_mean",
		"store_sales_mean", "store_waste_mean",
	)
	return cols
}

// Matrix projects feature vectors onto FeatureColumns for the anomaly model.
// Missing optional features project to 0, matching the fill the model was
// trained with.
func (p *Pipeline) Matrix(rows []FeatureVector) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i := range rows {
		row := &rows[i]

		values := []float64{
			row.Sales, row.Stock, row.Waste, row.WastePercentage, row.Price,
			float64(row.DayOfWeek), float64(row.Calendar.IsWeekend),
			row.Calendar.DaySin, row.Calendar.DayCos,
			row.Calendar.MonthSin, row.Calendar.MonthCos,
			float64(row.ShelfLifeDays),
		}
		for _, w := range p.windows {
			rs := row.Rolling[w]
			values = append(values, rs.SalesMean, rs.SalesStd)
		}
		for _, w := range p.windows {
			values = append(values, row.Rolling[w].WasteMean)
		}

		deviation := 0.0
		if row.SalesDeviation7d != nil {
			deviation = *row.SalesDeviation7d
		}
		productStd := 0.0
		if row.Aggregate.ProductSalesStd != nil {
			productStd = *row.Aggregate.ProductSalesStd
		}
		values = append(values,
			row.SalesStockRatio, deviation, row.WasteEfficiency,
			row.Aggregate.ProductSalesMean, productStd, row.Aggregate.ProductWasteMean,
			row.Aggregate.StoreSalesMean, row.Aggregate.StoreWasteMean,
		)

		matrix[i] = values
	}
	return matrix
}
