package risk

import (
	"fmt"
	"math"

	"github.com/LSUDOKO/TrustLens.AI/internal/reputation"
	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// CatalogVersion identifies the signature set. Bump on any threshold or
// signature change so downstream caches can distinguish result vintages.
const CatalogVersion = 3

// Signature trigger thresholds.
const (
	washMinTransactions      = 20
	washMaxCounterparties    = 5
	washSelfDealingThreshold = 0.7

	flashLoanMinCount = 3

	netOutflowThreshold = 0.8

	dormantGapDays      = 365
	dormantBurstMinTxns = 10

	failureRateMinTxns   = 10
	failureRateThreshold = 0.15

	contractHeavyMinTxns   = 50
	contractHeavyThreshold = 0.8
)

// signature couples a trigger predicate with its grading and evidence
// templates. The catalog is a closed table: adding a signature means adding
// one SignatureType constant and one row here.
type signature struct {
	typ            SignatureType
	title          string
	severity       Severity
	impact         int
	recommendation string
	triggered      func(m *wallet.Metrics) bool
	confidence     func(m *wallet.Metrics) float64
	evidence       func(m *wallet.Metrics) string
}

var catalog = []signature{
	{
		typ:            SigWashTrading,
		title:          "Suspected wash trading activity",
		severity:       SeverityCritical,
		impact:         95,
		recommendation: "Avoid transacting with this wallet until the recirculation pattern is explained.",
		triggered: func(m *wallet.Metrics) bool {
			return m.TotalTransactions > washMinTransactions &&
				m.UniqueCounterparties < washMaxCounterparties &&
				m.SelfDealingRatio() > washSelfDealingThreshold
		},
		confidence: func(m *wallet.Metrics) float64 {
			// Further past the 0.7 self-dealing threshold = higher confidence.
			return clampConf(0.85 + (m.SelfDealingRatio()-washSelfDealingThreshold)*0.5)
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("%.1f%% self-dealing ratio across %d transactions with only %d unique counterparties",
				m.SelfDealingRatio()*100, m.TotalTransactions, m.UniqueCounterparties)
		},
	},
	{
		typ:            SigMixerInteraction,
		title:          "Interaction with known mixing service",
		severity:       SeverityHigh,
		impact:         85,
		recommendation: "Treat funds as potentially tainted; expect AML scrutiny on any onward transfer.",
		triggered: func(m *wallet.Metrics) bool {
			return m.MixerCounterparties >= 1
		},
		confidence: func(m *wallet.Metrics) float64 {
			return clampConf(0.75 + 0.05*float64(m.MixerCounterparties))
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("%d counterparties match the static mixer address list (dataset %s)",
				m.MixerCounterparties, reputation.ListVersion)
		},
	},
	{
		typ:            SigNewWalletHighVolume,
		title:          "High volume activity in new wallet",
		severity:       SeverityHigh,
		impact:         80,
		recommendation: "Verify the wallet owner's identity and transaction purposes before engaging.",
		triggered: func(m *wallet.Metrics) bool {
			return m.NewWalletHighVolume()
		},
		confidence: func(m *wallet.Metrics) float64 {
			over := float64(m.TotalTransactions-wallet.NewWalletTxThreshold) / 2000
			return clampConf(0.7 + math.Min(0.2, over))
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("wallet is %d days old but has %d transactions moving %.2f native units",
				m.AgeDays, m.TotalTransactions, m.TotalVolume())
		},
	},
	{
		typ:            SigFlashLoanPattern,
		title:          "Flash loan usage pattern",
		severity:       SeverityMedium,
		impact:         55,
		recommendation: "Review same-block borrow/repay transactions for MEV or exploit attempts.",
		triggered: func(m *wallet.Metrics) bool {
			return m.FlashLoanCount >= flashLoanMinCount
		},
		confidence: func(m *wallet.Metrics) float64 {
			// Failures alongside flash loans point at exploit attempts.
			return clampConf(0.6 + math.Min(0.25, m.FailedRatio()))
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("%d same-block borrow/repay pairs with a %.1f%% transaction failure rate",
				m.FlashLoanCount, m.FailedRatio()*100)
		},
	},
	{
		typ:            SigSignificantNetOutflow,
		title:          "Significant net fund outflow",
		severity:       SeverityMedium,
		impact:         60,
		recommendation: "Monitor closely; large outflows may precede an exit or reflect routine treasury moves.",
		triggered: func(m *wallet.Metrics) bool {
			return m.NetFlowRatio() > netOutflowThreshold
		},
		confidence: func(m *wallet.Metrics) float64 {
			return clampConf(0.6 + (m.NetFlowRatio()-netOutflowThreshold)*1.5)
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("net-flow ratio %.2f: %.2f native units out vs %.2f in",
				m.NetFlowRatio(), m.OutgoingVolume, m.IncomingVolume)
		},
	},
	{
		typ:            SigDormantReactivated,
		title:          "Dormant wallet suddenly reactivated",
		severity:       SeverityMedium,
		impact:         50,
		recommendation: "Confirm the owner still controls the key; long-dormant wallets that burst awake are often compromised.",
		triggered: func(m *wallet.Metrics) bool {
			return m.DormancyGapDays >= dormantGapDays && m.PostGapTransactions >= dormantBurstMinTxns
		},
		confidence: func(m *wallet.Metrics) float64 {
			return clampConf(0.65 + math.Min(0.2, float64(m.PostGapTransactions)/100))
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("inactive for %d days, then %d transactions since reactivation",
				m.DormancyGapDays, m.PostGapTransactions)
		},
	},
	{
		typ:            SigHighFailureRate,
		title:          "High transaction failure rate",
		severity:       SeverityMedium,
		impact:         45,
		recommendation: "High failure rates suggest bot activity or poor execution; weigh against the wallet's other signals.",
		triggered: func(m *wallet.Metrics) bool {
			return m.TotalTransactions > failureRateMinTxns && m.FailedRatio() > failureRateThreshold
		},
		confidence: func(m *wallet.Metrics) float64 {
			return clampConf(0.6 + math.Min(0.3, m.FailedRatio()-failureRateThreshold))
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("%d of %d transactions failed (%.1f%%)",
				m.FailedTransactions, m.TotalTransactions, m.FailedRatio()*100)
		},
	},
	{
		typ:            SigHighContractInteraction,
		title:          "High smart contract interaction",
		severity:       SeverityLow,
		impact:         25,
		recommendation: "Generally a positive indicator of legitimate protocol usage; included for completeness.",
		triggered: func(m *wallet.Metrics) bool {
			return m.TotalTransactions > contractHeavyMinTxns && m.ContractRatio() > contractHeavyThreshold
		},
		confidence: func(m *wallet.Metrics) float64 {
			return 0.65
		},
		evidence: func(m *wallet.Metrics) string {
			return fmt.Sprintf("%.1f%% of %d transactions touch smart contracts",
				m.ContractRatio()*100, m.TotalTransactions)
		},
	},
}

func clampConf(c float64) float64 {
	if c > 0.99 {
		c = 0.99
	}
	if c < 0 {
		c = 0
	}
	return math.Round(c*1000) / 1000
}
