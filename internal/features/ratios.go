package features

// epsilon guards every ratio against exact-zero denominators. Matches the
// constant the external anomaly model was trained with; do not tune.
const epsilon = 1e-6

// applyRatioFeatures derives the dimensionless ratio family. Depends on the
// rolling stage having run when a 7-day window is configured; without it the
// deviation z-score stays nil and downstream consumers treat it as
// unavailable, not zero.
func applyRatioFeatures(rows []FeatureVector) {
	for i := range rows {
		row := &rows[i]

		row.SalesStockRatio = row.Sales / (row.Stock + epsilon)

		if r7, ok := row.RollingAt(7); ok {
			dev := (row.Sales - r7.SalesMean) / (r7.SalesStd + epsilon)
			row.SalesDeviation7d = &dev
		}

		// Can go negative when reported waste exceeds reported stock; the
		// scoring engine clamps separately.
		row.WasteEfficiency = 1 - row.Waste/(row.Stock+epsilon)
	}
}
