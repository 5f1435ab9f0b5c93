// Package simulator estimates the risk of a proposed transaction before it
// is sent.
//
// The assessment starts from a baseline derived from the source wallet's
// trust score and stacks flat penalties for each triggered risk condition.
// A blocklisted destination short-circuits: the transaction is graded
// critical regardless of every other signal. Assessment is pure and
// deterministic.
package simulator

import (
	"fmt"
	"math"

	"github.com/LSUDOKO/TrustLens.AI/internal/validation"
	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// RiskLevel grades a simulated transaction.
type RiskLevel string

const (
	LevelCritical RiskLevel = "critical"
	LevelHigh     RiskLevel = "high"
	LevelModerate RiskLevel = "moderate"
	LevelLow      RiskLevel = "low"
	LevelMinimal  RiskLevel = "minimal"
)

// Risk level bands and penalty constants.
const (
	criticalMin = 80
	highMin     = 60
	moderateMin = 40
	lowMin      = 20

	blocklistPenalty     = 60
	newlySeenPenalty     = 15
	noHistoryPenalty     = 8
	youngSourcePenalty   = 20
	outlierAmountPenalty = 10
	poorGasPenalty       = 5

	balanceFractionLimit   = 0.5
	balanceFractionSlope   = 50.0
	balanceFractionMax     = 25.0
	youngSourceAgeDays     = 7
	outlierAmountMultiple  = 10.0
	poorGasEfficiencyLimit = 30.0

	lossProbabilityCap = 0.95
)

// Request describes a proposed transaction.
type Request struct {
	Source      *wallet.Metrics         `json:"source"`
	TrustScore  int                     `json:"trustScore"` // source's composite trust score, 0-100
	Destination wallet.DestinationFlags `json:"destination"`
	Amount      float64                 `json:"amount"` // native units
}

// Assessment is the simulator's verdict.
type Assessment struct {
	RiskScore       int       `json:"riskScore"` // 0-100
	RiskLevel       RiskLevel `json:"riskLevel"`
	LossProbability float64   `json:"lossProbability"`
	Warnings        []string  `json:"warnings"`
	Recommendations []string  `json:"recommendations"`
}

// levelFor maps a risk score onto its band.
func levelFor(score int) RiskLevel {
	switch {
	case score >= criticalMin:
		return LevelCritical
	case score >= highMin:
		return LevelHigh
	case score >= moderateMin:
		return LevelModerate
	case score >= lowMin:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// Simulate assesses a proposed transaction. Malformed requests return a
// typed validation error; a zero amount is legal and skips every
// amount-driven penalty.
func Simulate(req Request) (*Assessment, error) {
	if req.Source == nil {
		return nil, validation.ValidationErrors{{Field: "source", Message: "is required"}}
	}
	if err := req.Source.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Validate(
		validation.NonNegativeFloat("amount", req.Amount),
		validation.FloatInRange("trustScore", float64(req.TrustScore), 0, 100),
		validation.ValidAddress("destination.address", req.Destination.Address),
	); err != nil {
		return nil, err
	}

	baseline := float64(100-req.TrustScore) / 4

	if req.Destination.Blocklisted {
		// Sanctioned destination overrides everything else.
		score := int(math.Round(baseline)) + blocklistPenalty
		if score < criticalMin {
			score = criticalMin
		}
		if score > 100 {
			score = 100
		}
		return &Assessment{
			RiskScore:       score,
			RiskLevel:       LevelCritical,
			LossProbability: lossProbability(score),
			Warnings:        []string{"Destination address appears on a sanctions or scam blocklist."},
			Recommendations: []string{"Do not proceed. Transacting with this address may carry legal exposure."},
		}, nil
	}

	score := baseline
	var warnings []string

	if req.Destination.NewlySeen {
		score += newlySeenPenalty
		warnings = append(warnings, "Destination address was first seen very recently.")
	}
	if !req.Destination.HasHistory {
		score += noHistoryPenalty
		warnings = append(warnings, "Destination address has no transaction history.")
	}

	if req.Amount > 0 && req.Source.BalanceNative > 0 {
		frac := req.Amount / req.Source.BalanceNative
		if frac > balanceFractionLimit {
			score += math.Min(balanceFractionMax, (frac-balanceFractionLimit)*balanceFractionSlope)
			warnings = append(warnings,
				fmt.Sprintf("Transaction moves %.0f%% of the wallet's balance.", math.Min(frac, 1)*100))
		}
	}

	if req.Source.AgeDays < youngSourceAgeDays {
		score += youngSourcePenalty
		warnings = append(warnings, "Source wallet is less than a week old.")
	}

	if req.Amount > 0 && req.Source.AvgTransactionValue > 0 &&
		req.Amount > req.Source.AvgTransactionValue*outlierAmountMultiple {
		score += outlierAmountPenalty
		warnings = append(warnings,
			fmt.Sprintf("Amount is over %.0fx this wallet's average transaction value.", outlierAmountMultiple))
	}

	if req.Source.GasEfficiency > 0 && req.Source.GasEfficiency < poorGasEfficiencyLimit {
		score += poorGasPenalty
		warnings = append(warnings, "Source wallet shows poor gas efficiency, a common bot trait.")
	}

	final := int(math.Round(math.Max(0, math.Min(100, score))))
	level := levelFor(final)

	return &Assessment{
		RiskScore:       final,
		RiskLevel:       level,
		LossProbability: lossProbability(final),
		Warnings:        warnings,
		Recommendations: recommendationsFor(level),
	}, nil
}

func lossProbability(score int) float64 {
	p := math.Min(float64(score)/100, lossProbabilityCap)
	return math.Round(p*1000) / 1000
}

func recommendationsFor(level RiskLevel) []string {
	switch level {
	case LevelCritical:
		return []string{"Do not proceed with this transaction."}
	case LevelHigh:
		return []string{"Proceed only after independently verifying the destination."}
	case LevelModerate:
		return []string{"Double-check the destination address and amount before sending."}
	default:
		return []string{"Standard caution applies."}
	}
}
