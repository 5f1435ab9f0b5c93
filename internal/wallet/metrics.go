// Package wallet defines the normalized wallet feature vector consumed by
// every analysis component.
//
// A Metrics value is an immutable snapshot built per analysis request by a
// data provider. The scoring core never fetches data itself: it only reads
// a validated Metrics and derives ratios from it.
package wallet

import (
	"math"

	"github.com/LSUDOKO/TrustLens.AI/internal/validation"
)

// Thresholds for derived flags.
const (
	// NewWalletAgeDays is the age below which a wallet counts as new.
	NewWalletAgeDays = 30
	// NewWalletTxThreshold is the transaction count above which a new
	// wallet counts as high-volume.
	NewWalletTxThreshold = 100

	// epsilon guards ratio divisions so zero-activity wallets yield 0, not NaN.
	epsilon = 1e-9
)

// ResolutionSource describes how the address identity was resolved.
type ResolutionSource string

const (
	ResolvedFromAddress ResolutionSource = "address"
	ResolvedFromENS     ResolutionSource = "ens"
)

// Metrics is the normalized feature vector for a single wallet.
// All counts are non-negative; ratios live in [0,1] or [-1,1].
type Metrics struct {
	// Identity
	Address      string           `json:"address"`
	ResolvedFrom ResolutionSource `json:"resolvedFrom"`

	// Temporal
	AgeDays          int `json:"ageDays"`          // first-seen to now
	LastActivityDays int `json:"lastActivityDays"` // most recent tx to now

	// Balance
	BalanceNative float64 `json:"balanceNative"` // ETH
	BalanceUSD    float64 `json:"balanceUsd"`    // fiat-equivalent at analysis time

	// Activity
	TotalTransactions    int     `json:"totalTransactions"`
	IncomingTransactions int     `json:"incomingTransactions"`
	OutgoingTransactions int     `json:"outgoingTransactions"`
	IncomingVolume       float64 `json:"incomingVolume"` // native units
	OutgoingVolume       float64 `json:"outgoingVolume"`
	UniqueCounterparties int     `json:"uniqueCounterparties"`
	ContractInteractions int     `json:"contractInteractions"`
	ProtocolCategories   int     `json:"protocolCategories"` // distinct DeFi/NFT/bridge categories touched

	// Transaction quality
	FailedTransactions  int     `json:"failedTransactions"`
	AvgTransactionValue float64 `json:"avgTransactionValue"` // native units, averaged over every tx incl. zero-value calls
	MaxTransactionValue float64 `json:"maxTransactionValue"`
	GasEfficiency       float64 `json:"gasEfficiency"` // 0-100, higher is better

	// Network
	BlocklistedCounterparties   int     `json:"blocklistedCounterparties"`
	MixerCounterparties         int     `json:"mixerCounterparties"`
	KnownExchangeCounterparties int     `json:"knownExchangeCounterparties"`
	ClusteringCoefficient       float64 `json:"clusteringCoefficient"` // 0-1
	FlashLoanCount              int     `json:"flashLoanCount"`        // same-block borrow/repay pairs
	DormancyGapDays             int     `json:"dormancyGapDays"`       // longest inactivity gap
	PostGapTransactions         int     `json:"postGapTransactions"`   // txs since that gap ended

	// Identity signals
	HasENSName          bool `json:"hasEnsName"`
	VerifiedSocialLinks int  `json:"verifiedSocialLinks"`

	// Provenance
	DataSource string `json:"dataSource"` // e.g. "etherscan", "simulated"
}

// Validate rejects malformed metrics before any scoring happens.
// Invariant violations are a data provider defect and are never clamped.
func (m *Metrics) Validate() error {
	errs := validation.Validate(
		validation.Required("address", m.Address),
		validation.ValidAddress("address", m.Address),
		validation.NonNegativeInt("ageDays", m.AgeDays),
		validation.NonNegativeInt("lastActivityDays", m.LastActivityDays),
		validation.NonNegativeFloat("balanceNative", m.BalanceNative),
		validation.NonNegativeFloat("balanceUsd", m.BalanceUSD),
		validation.NonNegativeInt("totalTransactions", m.TotalTransactions),
		validation.NonNegativeInt("incomingTransactions", m.IncomingTransactions),
		validation.NonNegativeInt("outgoingTransactions", m.OutgoingTransactions),
		validation.NonNegativeFloat("incomingVolume", m.IncomingVolume),
		validation.NonNegativeFloat("outgoingVolume", m.OutgoingVolume),
		validation.NonNegativeInt("uniqueCounterparties", m.UniqueCounterparties),
		validation.NonNegativeInt("contractInteractions", m.ContractInteractions),
		validation.NonNegativeInt("protocolCategories", m.ProtocolCategories),
		validation.NonNegativeInt("failedTransactions", m.FailedTransactions),
		validation.IntAtMost("failedTransactions", m.FailedTransactions, m.TotalTransactions),
		validation.NonNegativeFloat("avgTransactionValue", m.AvgTransactionValue),
		validation.NonNegativeFloat("maxTransactionValue", m.MaxTransactionValue),
		validation.FloatInRange("gasEfficiency", m.GasEfficiency, 0, 100),
		validation.NonNegativeInt("blocklistedCounterparties", m.BlocklistedCounterparties),
		validation.NonNegativeInt("mixerCounterparties", m.MixerCounterparties),
		validation.NonNegativeInt("knownExchangeCounterparties", m.KnownExchangeCounterparties),
		validation.FloatInRange("clusteringCoefficient", m.ClusteringCoefficient, 0, 1),
		validation.NonNegativeInt("flashLoanCount", m.FlashLoanCount),
		validation.NonNegativeInt("dormancyGapDays", m.DormancyGapDays),
		validation.NonNegativeInt("postGapTransactions", m.PostGapTransactions),
		validation.NonNegativeInt("verifiedSocialLinks", m.VerifiedSocialLinks),
	)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FailedRatio returns failed transactions over total, 0 for empty wallets.
func (m *Metrics) FailedRatio() float64 {
	if m.TotalTransactions == 0 {
		return 0
	}
	return float64(m.FailedTransactions) / float64(m.TotalTransactions)
}

// NetFlowRatio returns (outgoing - incoming) / max(outgoing + incoming, ε).
// Positive means net outflow. A wallet with no volume yields 0 by definition.
func (m *Metrics) NetFlowRatio() float64 {
	total := m.OutgoingVolume + m.IncomingVolume
	if total < epsilon {
		return 0
	}
	return (m.OutgoingVolume - m.IncomingVolume) / math.Max(total, epsilon)
}

// ContractRatio returns the fraction of transactions that touch a contract.
func (m *Metrics) ContractRatio() float64 {
	if m.TotalTransactions == 0 {
		return 0
	}
	return float64(m.ContractInteractions) / float64(m.TotalTransactions)
}

// ActivityFrequency returns transactions per day of wallet age.
// Sub-day-old wallets report their raw transaction count.
func (m *Metrics) ActivityFrequency() float64 {
	if m.AgeDays <= 0 {
		return float64(m.TotalTransactions)
	}
	return float64(m.TotalTransactions) / float64(m.AgeDays)
}

// SelfDealingRatio approximates how much activity recirculates among few
// counterparties: 1 - unique/total, floored at 0.
func (m *Metrics) SelfDealingRatio() float64 {
	if m.TotalTransactions == 0 {
		return 0
	}
	r := 1 - float64(m.UniqueCounterparties)/float64(m.TotalTransactions)
	if r < 0 {
		return 0
	}
	return r
}

// TotalVolume returns combined incoming and outgoing volume in native units.
func (m *Metrics) TotalVolume() float64 {
	return m.IncomingVolume + m.OutgoingVolume
}

// NewWalletHighVolume reports the derived young-wallet / heavy-traffic flag.
func (m *Metrics) NewWalletHighVolume() bool {
	return m.AgeDays < NewWalletAgeDays && m.TotalTransactions > NewWalletTxThreshold
}

// DestinationFlags is the caller-supplied reputation record for a transfer
// destination. The simulator never performs lookups itself.
type DestinationFlags struct {
	Address       string `json:"address"`
	Blocklisted   bool   `json:"blocklisted"`
	KnownContract bool   `json:"knownContract"`
	NewlySeen     bool   `json:"newlySeen"`  // first observed within the last few days
	HasHistory    bool   `json:"hasHistory"` // has established transaction history
}
