package risk

import (
	"fmt"

	"github.com/shelfaware/wastewatch/internal/features"
)

// recommend evaluates the action rule list top to bottom. The urgency rules
// on the composite score are mutually exclusive; the perishable and
// visibility rules stack on top. The list is never empty: with no rule
// fired the caller gets the monitoring default.
func (s *Scorer) recommend(vec *features.FeatureVector, score float64) []string {
	recs := make([]string, 0, 4)

	switch {
	case score > s.thresholds.Medium:
		recs = append(recs,
			"URGENT: Consider immediate markdown (20-30% off)",
			"Reduce next order quantity by 30-50%")
		if vec.Perishable {
			recs = append(recs, "Move to prominent display location")
		}
	case score > 40:
		recs = append(recs,
			"Apply promotional discount (10-15% off)",
			"Reduce next order quantity by 15-25%")
	}

	if vec.Perishable && vec.WastePercentage > 30 {
		daysLeft := float64(vec.ShelfLifeDays) * (1 - vec.WastePercentage/200)
		if daysLeft < 2 {
			recs = append(recs, fmt.Sprintf("Only ~%.0f days until expiry - urgent action needed", daysLeft))
		} else {
			recs = append(recs, "Inspect quality and check expiration dates")
		}
	}

	if vec.SalesStockRatio < 0.5 {
		recs = append(recs, "Improve product placement/visibility")
	}

	if len(recs) == 0 {
		recs = append(recs, "Monitor closely", "Continue normal operations")
	}
	return recs
}
