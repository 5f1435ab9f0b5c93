// Package trust computes the composite wallet trust score.
//
// Six component scorers each grade one dimension of a wallet's metrics on a
// 0-100 scale with an attached confidence. A fixed-weight aggregator folds
// them into a single score and maps it onto a gap-free category band.
// Scoring is pure: no I/O, no clock reads, identical metrics always produce
// an identical Score.
package trust

import (
	"math"

	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// Weights holds the aggregation weight of each component. The defaults sum
// to exactly 1.0; custom weights are normalized by Sum at aggregation time.
type Weights struct {
	Balance    float64 `json:"balance"`
	Activity   float64 `json:"activity"`
	Age        float64 `json:"age"`
	Quality    float64 `json:"quality"`
	Network    float64 `json:"network"`
	RiskFactor float64 `json:"riskFactor"`
}

// DefaultWeights is the production weighting. Quality and activity carry
// the most signal; the rest split evenly.
var DefaultWeights = Weights{
	Balance:    0.15,
	Activity:   0.20,
	Age:        0.15,
	Quality:    0.20,
	Network:    0.15,
	RiskFactor: 0.15,
}

// Sum returns the total weight mass.
func (w Weights) Sum() float64 {
	return w.Balance + w.Activity + w.Age + w.Quality + w.Network + w.RiskFactor
}

// ComponentScore is one dimension's grade. Score is clamped to [0, 100];
// Confidence to (0, 1] and reflects how complete the underlying data was.
type ComponentScore struct {
	Score      int     `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Components holds all six dimension grades. A struct rather than a map so
// JSON key order is fixed and no dimension can go missing silently.
type Components struct {
	Balance    ComponentScore `json:"balance"`
	Activity   ComponentScore `json:"activity"`
	Age        ComponentScore `json:"age"`
	Quality    ComponentScore `json:"quality"`
	Network    ComponentScore `json:"network"`
	RiskFactor ComponentScore `json:"riskFactor"`
}

// Category is the human-readable trust band.
type Category string

const (
	CategoryExceptional Category = "exceptional"
	CategoryHigh        Category = "high"
	CategoryModerate    Category = "moderate"
	CategoryCaution     Category = "caution"
	CategoryHighRisk    Category = "high_risk"
	CategoryCritical    Category = "critical"
)

// Band thresholds. Bands are contiguous: every score in [0, 100] maps to
// exactly one category.
const (
	exceptionalMin = 85
	highMin        = 70
	moderateMin    = 55
	cautionMin     = 40
	highRiskMin    = 25
)

// CategoryFor maps a composite score onto its trust band.
func CategoryFor(score int) Category {
	switch {
	case score >= exceptionalMin:
		return CategoryExceptional
	case score >= highMin:
		return CategoryHigh
	case score >= moderateMin:
		return CategoryModerate
	case score >= cautionMin:
		return CategoryCaution
	case score >= highRiskMin:
		return CategoryHighRisk
	default:
		return CategoryCritical
	}
}

// Score is the aggregated trust assessment for one wallet.
type Score struct {
	Address    string     `json:"address"`
	Score      int        `json:"score"` // 0-100
	Category   Category   `json:"category"`
	Confidence float64    `json:"confidence"`
	Components Components `json:"components"`
	Weights    Weights    `json:"weights"`
}

// Calculate validates the metrics, grades each component and aggregates
// with DefaultWeights. Malformed metrics return a typed validation error,
// never a clamped score.
func Calculate(m *wallet.Metrics) (*Score, error) {
	return CalculateWeighted(m, DefaultWeights)
}

// CalculateWeighted is Calculate with caller-supplied weights. Weights are
// normalized by their sum, so any positive weighting is accepted.
func CalculateWeighted(m *wallet.Metrics, w Weights) (*Score, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	c := Components{
		Balance:    scoreBalance(m),
		Activity:   scoreActivity(m),
		Age:        scoreAge(m),
		Quality:    scoreQuality(m),
		Network:    scoreNetwork(m),
		RiskFactor: scoreRiskFactor(m),
	}

	sum := w.Sum()
	if sum <= 0 {
		w = DefaultWeights
		sum = w.Sum()
	}

	weighted := w.Balance*float64(c.Balance.Score) +
		w.Activity*float64(c.Activity.Score) +
		w.Age*float64(c.Age.Score) +
		w.Quality*float64(c.Quality.Score) +
		w.Network*float64(c.Network.Score) +
		w.RiskFactor*float64(c.RiskFactor.Score)
	confidence := w.Balance*c.Balance.Confidence +
		w.Activity*c.Activity.Confidence +
		w.Age*c.Age.Confidence +
		w.Quality*c.Quality.Confidence +
		w.Network*c.Network.Confidence +
		w.RiskFactor*c.RiskFactor.Confidence

	composite := clampScore(int(math.Round(weighted / sum)))

	return &Score{
		Address:    m.Address,
		Score:      composite,
		Category:   CategoryFor(composite),
		Confidence: round3(confidence / sum),
		Components: c,
		Weights:    w,
	}, nil
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
