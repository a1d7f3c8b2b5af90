package risk

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfaware/wastewatch/internal/datagen"
	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/features"
)

func randomVector(rng *rand.Rand) features.FeatureVector {
	var vec features.FeatureVector
	vec.Date = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	vec.StoreID = 1 + rng.Intn(3)
	vec.Product = "Milk"
	vec.Stock = rng.Float64() * 200
	vec.Sales = rng.Float64() * vec.Stock
	vec.Waste = vec.Stock - vec.Sales
	if vec.Stock > 0 {
		vec.WastePercentage = vec.Waste / vec.Stock * 100
	}
	vec.Perishable = rng.Float64() < 0.5
	vec.ShelfLifeDays = 1 + rng.Intn(14)
	vec.SalesStockRatio = rng.Float64() * 2
	vec.Rolling = map[int]features.RollingStats{
		7:  {SalesMean: rng.Float64() * 150, SalesStd: rng.Float64() * 30, WasteMean: rng.Float64() * 40},
		14: {SalesMean: rng.Float64() * 150, SalesStd: rng.Float64() * 30, WasteMean: rng.Float64() * 40},
	}
	return vec
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer()
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 500; i++ {
		vec := randomVector(rng)
		a := scorer.Score(&vec)

		assert.GreaterOrEqual(t, a.WasteRiskScore, 0.0)
		assert.LessOrEqual(t, a.WasteRiskScore, 100.0)
		for _, c := range []float64{
			a.Scores.CurrentWaste, a.Scores.HistoricalWaste,
			a.Scores.SalesTrend, a.Scores.StockLevel, a.Scores.Perishability,
		} {
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 100.0)
		}
		assert.NotEmpty(t, a.Recommendations)
		assert.NotEmpty(t, a.Explanation)
	}
}

func TestScoreMissingRollingDefaults(t *testing.T) {
	var vec features.FeatureVector
	vec.Product = "Widget"
	vec.Stock = 100
	vec.SalesStockRatio = 1.0

	a := NewScorer().Score(&vec)

	assert.Zero(t, a.Scores.CurrentWaste)
	assert.Zero(t, a.Scores.HistoricalWaste)
	assert.Equal(t, 50.0, a.Scores.SalesTrend)
	assert.Equal(t, 50.0, a.Scores.StockLevel)
	assert.Zero(t, a.Scores.Perishability)

	// 0*0.30 + 0*0.20 + 50*0.20 + 50*0.20 + 0*0.10
	assert.InDelta(t, 20, a.WasteRiskScore, 1e-9)
	assert.Equal(t, domain.RiskLow, a.RiskLevel)
	assert.Equal(t, []string{"Monitor closely", "Continue normal operations"}, a.Recommendations)
}

func TestClassifyTiers(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, domain.RiskLow, s.classify(0))
	assert.Equal(t, domain.RiskLow, s.classify(30))
	assert.Equal(t, domain.RiskMedium, s.classify(30.01))
	assert.Equal(t, domain.RiskMedium, s.classify(60))
	assert.Equal(t, domain.RiskHigh, s.classify(60.01))
	assert.Equal(t, domain.RiskHigh, s.classify(100))
}

func TestNewScorerWithValidation(t *testing.T) {
	_, err := NewScorerWith(Weights{CurrentWaste: 0.5}, DefaultThresholds)
	assert.Error(t, err)

	_, err = NewScorerWith(DefaultWeights, Thresholds{Low: 60, Medium: 30})
	assert.Error(t, err)

	s, err := NewScorerWith(DefaultWeights, Thresholds{Low: 20, Medium: 80})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, s.classify(50))
}

func TestSalesTrendScoreDirection(t *testing.T) {
	s := NewScorer()

	flat := features.FeatureVector{Rolling: map[int]features.RollingStats{
		7:  {SalesMean: 100},
		14: {SalesMean: 100},
	}}
	declining := features.FeatureVector{Rolling: map[int]features.RollingStats{
		7:  {SalesMean: 50},
		14: {SalesMean: 100},
	}}
	rising := features.FeatureVector{Rolling: map[int]features.RollingStats{
		7:  {SalesMean: 150},
		14: {SalesMean: 100},
	}}

	assert.InDelta(t, 50, s.salesTrendScore(&flat), 1e-3)
	assert.InDelta(t, 100, s.salesTrendScore(&declining), 1e-3)
	assert.InDelta(t, 0, s.salesTrendScore(&rising), 1e-3)
}

func TestStockLevelScoreCoverage(t *testing.T) {
	s := NewScorer()

	balanced := features.FeatureVector{Rolling: map[int]features.RollingStats{7: {SalesMean: 100}}}
	balanced.Stock = 100
	overstocked := features.FeatureVector{Rolling: map[int]features.RollingStats{7: {SalesMean: 100}}}
	overstocked.Stock = 300

	assert.InDelta(t, 0, s.stockLevelScore(&balanced), 1e-3)
	assert.InDelta(t, 100, s.stockLevelScore(&overstocked), 1e-3)
}

func TestRecommendUrgentPerishable(t *testing.T) {
	var vec features.FeatureVector
	vec.Perishable = true
	vec.WastePercentage = 60
	vec.ShelfLifeDays = 3
	vec.SalesStockRatio = 1.0

	recs := NewScorer().recommend(&vec, 80)

	assert.Contains(t, recs, "URGENT: Consider immediate markdown (20-30% off)")
	assert.Contains(t, recs, "Reduce next order quantity by 30-50%")
	assert.Contains(t, recs, "Move to prominent display location")
	// 3 * (1 - 60/200) = 2.1 days, above the urgency cutoff.
	assert.Contains(t, recs, "Inspect quality and check expiration dates")
}

func TestRecommendExpiryCountdown(t *testing.T) {
	var vec features.FeatureVector
	vec.Perishable = true
	vec.WastePercentage = 80
	vec.ShelfLifeDays = 3
	vec.SalesStockRatio = 0.2

	recs := NewScorer().recommend(&vec, 10)

	// 3 * (1 - 80/200) = 1.8 days left.
	assert.Contains(t, recs, "Only ~2 days until expiry - urgent action needed")
	assert.Contains(t, recs, "Improve product placement/visibility")
}

func TestScoreAllOnSyntheticLedger(t *testing.T) {
	obs := datagen.New(1234).Generate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 30, 3)
	pipeline := features.NewPipeline()

	rows, err := pipeline.EngineerFeatures(obs)
	require.NoError(t, err)

	assessments := NewScorer().ScoreAll(rows)
	require.Len(t, assessments, len(rows))

	high := 0
	for _, a := range assessments {
		assert.GreaterOrEqual(t, a.WasteRiskScore, 0.0)
		assert.LessOrEqual(t, a.WasteRiskScore, 100.0)
		assert.NotEmpty(t, a.Recommendations)
		if a.WasteRiskScore > DefaultThresholds.Medium {
			high++
			assert.Equal(t, domain.RiskHigh, a.RiskLevel)
		}
	}

	highTier := 0
	for _, a := range assessments {
		if a.RiskLevel == domain.RiskHigh {
			highTier++
		}
	}
	assert.Equal(t, high, highTier)
}
