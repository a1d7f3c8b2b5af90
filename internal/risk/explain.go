package risk

import (
	"fmt"
	"strings"

	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/features"
)

// explain builds the free-text diagnosis shown next to a risk score. The
// wording is not part of any contract; only the numeric fields it reads are.
func explain(vec *features.FeatureVector, scores domain.ComponentScores) string {
	parts := make([]string, 0, 5)

	if scores.CurrentWaste > 40 {
		parts = append(parts, fmt.Sprintf("Current waste is %.1f%% of stock", vec.WastePercentage))
	}
	if scores.HistoricalWaste > 40 {
		parts = append(parts, "Consistent waste pattern over past 2 weeks")
	}
	if scores.SalesTrend > 60 {
		parts = append(parts, "Declining sales trend detected")
	}
	if scores.StockLevel > 50 {
		parts = append(parts, "Stock level significantly exceeds recent sales")
	}
	if vec.Perishable {
		parts = append(parts, fmt.Sprintf("Perishable product (shelf life: %d days)", vec.ShelfLifeDays))
	}

	if len(parts) == 0 {
		return "Multiple minor risk factors"
	}
	return strings.Join(parts, " | ")
}
