package trust

import (
	"math"

	"github.com/LSUDOKO/TrustLens.AI/internal/risk"
	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// Component scoring constants. Saturation points mark where more of a
// quantity stops adding trust.
const (
	balancePointsPerDecade = 25.0 // $10 -> 25, $100 -> 50, $10k -> 100

	activityTxMax         = 40.0
	activityTxSaturate    = 1000.0
	activityCpMax         = 30.0
	activityCpSaturate    = 50.0
	activityDiversityMax  = 15.0
	activityDiversityFull = 4
	activityRecencyMax    = 15.0
	activityRecencyDays   = 30.0
	activityNoProtocolCap = 75

	ageFullScoreDays = 365

	qualityFailurePenaltyMax = 50.0
	qualityFailureSlope      = 250.0
	qualityOutlierRatio      = 10.0
	qualityOutlierPenaltyMax = 30.0

	networkBase              = 70
	networkExchangeBonusMax  = 30
	networkExchangeBonus     = 5
	networkBlocklistFloor    = 25.0
	networkBlocklistSlope    = 400.0
	networkClusteringLimit   = 0.8
	networkClusteringPenalty = 10
)

// Severity penalties applied to the risk-factor component, one per
// triggered signature.
var severityPenalty = map[risk.Severity]int{
	risk.SeverityCritical: 35,
	risk.SeverityHigh:     20,
	risk.SeverityMedium:   10,
	risk.SeverityLow:      5,
}

// scoreBalance grades holdings on a log scale so whales saturate instead
// of dominating. Confidence drops when the USD conversion is missing but
// the native balance shows funds.
func scoreBalance(m *wallet.Metrics) ComponentScore {
	score := balancePointsPerDecade * math.Log10(m.BalanceUSD+1)
	conf := 1.0
	if m.BalanceUSD == 0 && m.BalanceNative > 0 {
		// Funds exist but pricing data was unavailable.
		score = balancePointsPerDecade * math.Log10(m.BalanceNative*1000+1)
		conf = 0.5
	}
	return ComponentScore{Score: clampScore(int(math.Round(score))), Confidence: conf}
}

// scoreActivity grades transaction volume, counterparty breadth, protocol
// diversity and recency. A wallet that never touched a known protocol
// category is capped: raw volume alone is not full activity credit.
func scoreActivity(m *wallet.Metrics) ComponentScore {
	tx := activityTxMax * saturatingLog(float64(m.TotalTransactions), activityTxSaturate)
	cp := activityCpMax * saturatingLog(float64(m.UniqueCounterparties), activityCpSaturate)

	diversity := activityDiversityMax * math.Min(1, float64(m.ProtocolCategories)/activityDiversityFull)

	recency := 0.0
	if m.LastActivityDays < activityRecencyDays {
		recency = activityRecencyMax * (1 - float64(m.LastActivityDays)/activityRecencyDays)
	}

	score := int(math.Round(tx + cp + diversity + recency))
	if m.ProtocolCategories == 0 && score > activityNoProtocolCap {
		score = activityNoProtocolCap
	}

	conf := 0.95
	if m.TotalTransactions < 50 {
		conf = 0.7 // thin history, grading on little evidence
	}
	return ComponentScore{Score: clampScore(score), Confidence: conf}
}

// scoreAge grades linearly up to one year, then full marks.
func scoreAge(m *wallet.Metrics) ComponentScore {
	score := int(math.Round(float64(m.AgeDays) * 100 / ageFullScoreDays))
	conf := 1.0
	if m.AgeDays == 0 {
		conf = 0.6 // first-seen today or age unresolvable
	}
	return ComponentScore{Score: clampScore(score), Confidence: conf}
}

// scoreQuality grades execution quality: failure rate and value-outlier
// penalties against a perfect-100 baseline.
func scoreQuality(m *wallet.Metrics) ComponentScore {
	score := 100.0
	score -= math.Min(qualityFailurePenaltyMax, m.FailedRatio()*qualityFailureSlope)

	if m.AvgTransactionValue > 0 {
		ratio := m.MaxTransactionValue / m.AvgTransactionValue
		if ratio > qualityOutlierRatio {
			score -= math.Min(qualityOutlierPenaltyMax, (ratio-qualityOutlierRatio)*2)
		}
	}

	conf := 0.9
	if m.TotalTransactions < 20 {
		conf = 0.6
	}
	return ComponentScore{Score: clampScore(int(math.Round(score))), Confidence: conf}
}

// scoreNetwork grades counterparty quality. Blocklisted counterparties
// bite hard even at low proportions; known exchanges add modest credit.
func scoreNetwork(m *wallet.Metrics) ComponentScore {
	score := float64(networkBase)

	if m.BlocklistedCounterparties > 0 {
		prop := float64(m.BlocklistedCounterparties) / math.Max(float64(m.UniqueCounterparties), 1)
		score -= math.Min(float64(networkBase), networkBlocklistFloor+prop*networkBlocklistSlope)
	}

	bonus := m.KnownExchangeCounterparties * networkExchangeBonus
	if bonus > networkExchangeBonusMax {
		bonus = networkExchangeBonusMax
	}
	score += float64(bonus)

	if m.ClusteringCoefficient > networkClusteringLimit {
		score -= networkClusteringPenalty
	}

	conf := 0.9
	if m.UniqueCounterparties < 10 {
		conf = 0.65
	}
	return ComponentScore{Score: clampScore(int(math.Round(score))), Confidence: conf}
}

// scoreRiskFactor converts the triggered risk signatures into a score by
// deducting a flat penalty per severity from 100.
func scoreRiskFactor(m *wallet.Metrics) ComponentScore {
	score := 100
	for _, s := range risk.Severities(m) {
		score -= severityPenalty[s]
	}
	return ComponentScore{Score: clampScore(score), Confidence: 0.9}
}

// saturatingLog maps n onto [0, 1] with log compression, hitting 1.0 at
// the saturation point.
func saturatingLog(n, saturate float64) float64 {
	if n <= 0 {
		return 0
	}
	v := math.Log10(n+1) / math.Log10(saturate+1)
	return math.Min(1, v)
}
