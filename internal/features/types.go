package features

import "github.com/shelfaware/wastewatch/internal/domain"

// CalendarFeatures are the calendar/cyclical encodings derived from a date.
// The sine/cosine pairs keep adjacent days/months numerically close for the
// downstream model (Sunday and Monday should not look a week apart).
type CalendarFeatures struct {
	Month     int     `json:"month"`
	IsWeekend int     `json:"is_weekend"`
	DaySin    float64 `json:"day_sin"`
	DayCos    float64 `json:"day_cos"`
	MonthSin  float64 `json:"month_sin"`
	MonthCos  float64 `json:"month_cos"`
}

// RollingStats are the trailing statistics of one window over a single
// (store, product) partition, already zero-filled for cold-start rows.
type RollingStats struct {
	SalesMean float64 `json:"sales_mean"`
	SalesStd  float64 `json:"sales_std"`
	WasteMean float64 `json:"waste_mean"`
}

// AggregateFeatures are lifetime cross-sectional statistics joined back onto
// every row. ProductSalesStd is nil when the product has a single observation:
// the sample standard deviation of one point is undefined and is deliberately
// left missing rather than zero-filled.
type AggregateFeatures struct {
	ProductSalesMean float64  `json:"product_sales_mean"`
	ProductSalesStd  *float64 `json:"product_sales_std"`
	ProductWasteMean float64  `json:"product_waste_mean"`
	StoreSalesMean   float64  `json:"store_sales_mean"`
	StoreWasteMean   float64  `json:"store_waste_mean"`
}

// FeatureVector augments a SalesObservation with every derived feature
// family. Optional features carry typed presence (map key, nil pointer)
// instead of the column-existence checks the model side uses.
type FeatureVector struct {
	domain.SalesObservation

	Calendar CalendarFeatures

	// Rolling is keyed by window size in days; a missing key means that
	// window was not configured for this pipeline run.
	Rolling map[int]RollingStats

	SalesStockRatio float64
	// SalesDeviation7d is the z-score of today's sales against the 7-day
	// rolling mean/std. Nil when the 7-day window was not configured.
	SalesDeviation7d *float64
	WasteEfficiency  float64

	Aggregate AggregateFeatures
}

// RollingAt returns the rolling statistics for the given window and whether
// that window was configured.
func (v *FeatureVector) RollingAt(window int) (RollingStats, bool) {
	rs, ok := v.Rolling[window]
	return rs, ok
}
