package anomaly

import (
	"fmt"
	"math"
	"strings"

	"github.com/shelfaware/wastewatch/internal/features"
)

// Explain builds a human-readable reason for why a row was flagged. The
// wording is advisory; dashboards render it verbatim next to the underlying
// numeric fields.
func Explain(vec *features.FeatureVector) string {
	parts := make([]string, 0, 3)

	if vec.SalesDeviation7d != nil && math.Abs(*vec.SalesDeviation7d) > 2 {
		direction := "higher"
		if *vec.SalesDeviation7d < 0 {
			direction = "lower"
		}
		parts = append(parts, fmt.Sprintf("Sales %.1fx std dev %s than normal",
			math.Abs(*vec.SalesDeviation7d), direction))
	}

	if vec.WastePercentage > 30 {
		parts = append(parts, fmt.Sprintf("High waste: %.1f%%", vec.WastePercentage))
	}

	if vec.SalesStockRatio < 0.3 {
		parts = append(parts, "Overstocked (Low sales-to-stock ratio)")
	}

	if len(parts) == 0 {
		return "Unusual combination of factors"
	}
	return strings.Join(parts, " | ")
}
