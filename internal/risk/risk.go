// Package risk implements the explainable risk analyzer.
//
// A fixed, versioned catalog of risk signatures is evaluated against a
// wallet's metrics. Each triggered signature produces a graded Factor with
// evidence quoting the actual field values that tripped it. Analysis is
// pure and deterministic: identical metrics always produce identical
// factors in identical order.
package risk

// Severity grades a risk factor.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for sorting; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// SignatureType identifies a risk signature in the catalog.
type SignatureType string

const (
	SigWashTrading             SignatureType = "wash_trading"
	SigMixerInteraction        SignatureType = "mixer_interaction"
	SigNewWalletHighVolume     SignatureType = "new_wallet_high_volume"
	SigFlashLoanPattern        SignatureType = "flash_loan_pattern"
	SigSignificantNetOutflow   SignatureType = "significant_net_outflow"
	SigDormantReactivated      SignatureType = "dormant_reactivated"
	SigHighFailureRate         SignatureType = "high_failure_rate"
	SigHighContractInteraction SignatureType = "high_contract_interaction"
)

// Factor is one triggered risk signature with its grading and evidence.
// Immutable once produced; never persisted by this package.
type Factor struct {
	Type           SignatureType `json:"type"`
	Title          string        `json:"title"`
	Severity       Severity      `json:"severity"`
	Confidence     float64       `json:"confidence"`
	ImpactScore    int           `json:"impactScore"` // 0-100
	Evidence       string        `json:"evidence"`
	Recommendation string        `json:"recommendation"`
}
