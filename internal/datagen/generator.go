// Package datagen produces synthetic retail ledgers with realistic weekly,
// seasonal and anomaly patterns, used for seeding and deterministic test
// fixtures.
package datagen

import (
	"math"
	"math/rand"
	"time"

	"github.com/shelfaware/wastewatch/internal/domain"
)

// catalog maps categories to their sellable products.
var catalog = []struct {
	category string
	products []string
}{
	{"Fresh Produce", []string{"Apples", "Bananas", "Lettuce", "Tomatoes", "Carrots"}},
	{"Dairy", []string{"Milk", "Yogurt", "Cheese", "Butter", "Cream"}},
	{"Bakery", []string{"Bread", "Croissants", "Muffins", "Bagels", "Donuts"}},
	{"Meat", []string{"Chicken", "Beef", "Pork", "Fish", "Turkey"}},
	{"Frozen", []string{"Ice Cream", "Frozen Pizza", "Vegetables", "Fish Sticks", "Berries"}},
}

// shelfLifeDays is the approximate shelf life per category. Frozen goods
// effectively never expire on this horizon.
var shelfLifeDays = map[string]int{
	"Fresh Produce": 7,
	"Dairy":         14,
	"Bakery":        5,
	"Meat":          7,
	"Frozen":        180,
}

var perishableCategories = map[string]bool{
	"Fresh Produce": true,
	"Dairy":         true,
	"Bakery":        true,
	"Meat":          true,
}

// Generator produces synthetic sales observations. The random source is an
// explicit field seeded at construction, never the process-wide one, so a
// given seed always reproduces the same ledger.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator with the given seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces one row per (store, product, day) ending at endDate.
// Weekends sell ~30% more, demand follows a yearly sine, and about 5% of
// rows carry an injected sales spike or drop to simulate real-world chaos.
func (g *Generator) Generate(endDate time.Time, nDays, nStores int) []domain.SalesObservation {
	rows := make([]domain.SalesObservation, 0, nDays*nStores*25)
	startDate := endDate.AddDate(0, 0, -nDays)

	for storeID := 1; storeID <= nStores; storeID++ {
		for day := 0; day < nDays; day++ {
			date := startDate.AddDate(0, 0, day)
			dayOfWeek := mondayIndexed(date.Weekday())

			weekendMultiplier := 1.0
			if dayOfWeek >= 5 {
				weekendMultiplier = 1.3
			}
			seasonalFactor := 1 + 0.2*math.Sin(2*math.Pi*float64(day)/365)

			for _, entry := range catalog {
				for _, product := range entry.products {
					baseDemand := (100 + 20*g.rng.NormFloat64()) * (0.8 + float64(storeID)*0.1)
					demand := math.Max(0, baseDemand*weekendMultiplier*seasonalFactor)

					stock := demand * (1.1 + 0.3*g.rng.Float64())
					sales := math.Min(demand, stock)

					// ~5% of rows get a spike (promotion, supply issue) or a
					// drop (quality, competition).
					if g.rng.Float64() < 0.05 {
						if g.rng.Float64() < 0.5 {
							sales *= 2.5 + 1.5*g.rng.Float64()
						} else {
							sales *= 0.1 + 0.2*g.rng.Float64()
						}
					}

					waste := math.Max(0, stock-sales)
					wastePct := 0.0
					if stock > 0 {
						wastePct = waste / stock * 100
					}

					rows = append(rows, domain.SalesObservation{
						Date:            date,
						StoreID:         storeID,
						Category:        entry.category,
						Product:         product,
						Sales:           round2(sales),
						Stock:           round2(stock),
						Waste:           round2(waste),
						WastePercentage: round2(wastePct),
						Price:           round2(2 + 13*g.rng.Float64()),
						DayOfWeek:       dayOfWeek,
						ShelfLifeDays:   shelfLifeDays[entry.category],
						Perishable:      perishableCategories[entry.category],
					})
				}
			}
		}
	}

	return rows
}

// mondayIndexed converts Go's Sunday-first weekday to the ledger's
// Monday=0 convention.
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
