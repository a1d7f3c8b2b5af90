// internal/domain/models.go
package domain

import "time"

// SalesObservation is one row of the retail sales ledger: what a single
// (store, product) pair sold, stocked and wasted on a given day.
// The pipeline assumes at most one row per (StoreID, Product, Date);
// duplicates are not deduplicated and will double-count in aggregates.
type SalesObservation struct {
	Date            time.Time `json:"date" db:"date"`
	StoreID         int       `json:"store_id" db:"store_id"`
	Category        string    `json:"category" db:"category"`
	Product         string    `json:"product" db:"product"`
	Sales           float64   `json:"sales" db:"sales"`
	Stock           float64   `json:"stock" db:"stock"`
	Waste           float64   `json:"waste" db:"waste"`
	WastePercentage float64   `json:"waste_percentage" db:"waste_percentage"`
	Price           float64   `json:"price" db:"price"`
	DayOfWeek       int       `json:"day_of_week" db:"day_of_week"` // 0=Monday .. 6=Sunday
	ShelfLifeDays   int       `json:"shelf_life_days" db:"shelf_life_days"`
	Perishable      bool      `json:"perishable" db:"perishable"`
}

// RiskLevel is the discrete tier derived from the composite waste risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ComponentScores holds the five bounded sub-scores that feed the composite
// waste risk score. Each value is clamped to [0,100].
type ComponentScores struct {
	CurrentWaste    float64 `json:"score_current_waste"`
	HistoricalWaste float64 `json:"score_historical_waste"`
	SalesTrend      float64 `json:"score_sales_trend"`
	StockLevel      float64 `json:"score_stock_level"`
	Perishability   float64 `json:"score_perishability"`
}

// RiskAssessment is the scoring engine's output for a single observation.
type RiskAssessment struct {
	Date            time.Time       `json:"date" db:"date"`
	StoreID         int             `json:"store_id" db:"store_id"`
	Product         string          `json:"product" db:"product"`
	Scores          ComponentScores `json:"component_scores"`
	WasteRiskScore  float64         `json:"waste_risk_score" db:"waste_risk_score"`
	RiskLevel       RiskLevel       `json:"risk_level" db:"risk_level"`
	Explanation     string          `json:"explanation" db:"explanation"`
	Recommendations []string        `json:"recommendations"`
}

// AnomalyPrediction is one row of the anomaly model's output joined back to
// its source observation. Lower AnomalyScore means more anomalous.
type AnomalyPrediction struct {
	Date         time.Time `json:"date" db:"date"`
	StoreID      int       `json:"store_id" db:"store_id"`
	Product      string    `json:"product" db:"product"`
	Sales        float64   `json:"sales" db:"sales"`
	Waste        float64   `json:"waste" db:"waste"`
	IsAnomaly    bool      `json:"is_anomaly" db:"is_anomaly"`
	AnomalyScore float64   `json:"anomaly_score" db:"anomaly_score"`
	Explanation  string    `json:"explanation" db:"explanation"`
}

// SalesFilter restricts which ledger rows a query returns. Zero values mean
// "no restriction".
type SalesFilter struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	StoreID   int    `json:"store_id"`
}

// RiskTierCount is one bucket of the risk summary breakdown.
type RiskTierCount struct {
	RiskLevel RiskLevel `json:"risk_level" db:"risk_level"`
	Count     int       `json:"count" db:"count"`
}
