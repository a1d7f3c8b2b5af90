// Package risk implements the rule-based waste risk scoring engine that
// turns feature vectors into bounded scores, tiers and recommendations.
package risk

import (
	"fmt"

	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/features"
)

const epsilon = 1e-6

// Weights are the fixed blend of the five component scores. They must sum
// to 1.0 so the composite stays on the same 0-100 scale as its components.
type Weights struct {
	CurrentWaste    float64
	HistoricalWaste float64
	SalesTrend      float64
	StockLevel      float64
	Perishability   float64
}

// DefaultWeights is the canonical production weight set.
var DefaultWeights = Weights{
	CurrentWaste:    0.30,
	HistoricalWaste: 0.20,
	SalesTrend:      0.20,
	StockLevel:      0.20,
	Perishability:   0.10,
}

// Thresholds are the tier bin edges. A score at or below Low is Low risk,
// at or below Medium is Medium, anything above Medium is High. Lower bounds
// are exclusive; upper bounds inclusive.
type Thresholds struct {
	Low    float64
	Medium float64
}

// DefaultThresholds is the canonical tier binning.
var DefaultThresholds = Thresholds{Low: 30, Medium: 60}

// neutralScore is the sub-score used when a component's rolling inputs are
// unavailable: it neither raises nor lowers the composite.
const neutralScore = 50

// Scorer computes waste risk assessments from feature vectors.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
}

// NewScorer returns a Scorer with the canonical weights and thresholds.
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultWeights, thresholds: DefaultThresholds}
}

// NewScorerWith returns a Scorer with explicit constants. Weights that do
// not sum to 1.0 are rejected so a misconfigured blend cannot silently
// change the score scale.
func NewScorerWith(w Weights, t Thresholds) (*Scorer, error) {
	sum := w.CurrentWaste + w.HistoricalWaste + w.SalesTrend + w.StockLevel + w.Perishability
	if sum < 1-epsilon || sum > 1+epsilon {
		return nil, fmt.Errorf("risk weights sum to %.4f, want 1.0", sum)
	}
	if t.Low < 0 || t.Medium <= t.Low || t.Medium > 100 {
		return nil, fmt.Errorf("invalid risk thresholds: low=%.1f medium=%.1f", t.Low, t.Medium)
	}
	return &Scorer{weights: w, thresholds: t}, nil
}

// Score computes the assessment for a single feature vector. Missing rolling
// features never fail; they degrade the dependent component to its
// documented default (historical waste to 0, trend and stock level to the
// neutral 50).
func (s *Scorer) Score(vec *features.FeatureVector) domain.RiskAssessment {
	scores := domain.ComponentScores{
		CurrentWaste:    clamp(vec.WastePercentage, 0, 100),
		HistoricalWaste: s.historicalWasteScore(vec),
		SalesTrend:      s.salesTrendScore(vec),
		StockLevel:      s.stockLevelScore(vec),
	}
	if vec.Perishable {
		scores.Perishability = 100
	}

	composite := clamp(
		scores.CurrentWaste*s.weights.CurrentWaste+
			scores.HistoricalWaste*s.weights.HistoricalWaste+
			scores.SalesTrend*s.weights.SalesTrend+
			scores.StockLevel*s.weights.StockLevel+
			scores.Perishability*s.weights.Perishability,
		0, 100)

	return domain.RiskAssessment{
		Date:            vec.Date,
		StoreID:         vec.StoreID,
		Product:         vec.Product,
		Scores:          scores,
		WasteRiskScore:  composite,
		RiskLevel:       s.classify(composite),
		Explanation:     explain(vec, scores),
		Recommendations: s.recommend(vec, composite),
	}
}

// ScoreAll scores every row of a feature table in input order.
func (s *Scorer) ScoreAll(rows []features.FeatureVector) []domain.RiskAssessment {
	out := make([]domain.RiskAssessment, len(rows))
	for i := range rows {
		out[i] = s.Score(&rows[i])
	}
	return out
}

// historicalWasteScore normalizes the 14-day waste mean against current
// stock. Zero when the 14-day window is unavailable.
func (s *Scorer) historicalWasteScore(vec *features.FeatureVector) float64 {
	r14, ok := vec.RollingAt(14)
	if !ok {
		return 0
	}
	return clamp(r14.WasteMean/(vec.Stock+epsilon)*100, 0, 100)
}

// salesTrendScore maps the relative change between the 7-day and 14-day
// sales means so that a steep decline yields a high score. A flat trend maps
// to the neutral 50, which is also the default when either window is absent.
func (s *Scorer) salesTrendScore(vec *features.FeatureVector) float64 {
	r7, ok7 := vec.RollingAt(7)
	r14, ok14 := vec.RollingAt(14)
	if !ok7 || !ok14 {
		return neutralScore
	}
	trend := (r7.SalesMean - r14.SalesMean) / (r14.SalesMean + epsilon)
	return clamp((-trend+0.5)*100, 0, 100)
}

// stockLevelScore scores stock coverage against recent sales: stock above
// one 7-day average day of sales starts raising the score.
func (s *Scorer) stockLevelScore(vec *features.FeatureVector) float64 {
	r7, ok := vec.RollingAt(7)
	if !ok {
		return neutralScore
	}
	coverage := vec.Stock / (r7.SalesMean + epsilon)
	return clamp((coverage-1)*50, 0, 100)
}

// classify bins the composite score into a tier. Low: score <= 30,
// Medium: 30 < score <= 60, High: score > 60.
func (s *Scorer) classify(score float64) domain.RiskLevel {
	switch {
	case score <= s.thresholds.Low:
		return domain.RiskLow
	case score <= s.thresholds.Medium:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
