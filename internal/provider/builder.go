package provider

import (
	"strconv"
	"strings"
	"time"

	"github.com/LSUDOKO/TrustLens.AI/internal/reputation"
	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// Gas below this per transaction counts as efficient. A plain transfer
// costs 21k; generous headroom for simple contract calls.
const efficientGasLimit = 100000

// newlySeenAgeDays marks a destination as newly seen when its first
// transaction is this recent.
const newlySeenAgeDays = 7

// BuildMetrics condenses a transaction history and balance into the wallet
// metrics record. The reference time is an explicit parameter so a fixed
// history always produces identical metrics.
func BuildMetrics(address string, txs []Transaction, balanceEther, etherUSD float64, now time.Time) *wallet.Metrics {
	addr := strings.ToLower(address)
	m := &wallet.Metrics{
		Address:       addr,
		ResolvedFrom:  wallet.ResolvedFromAddress,
		BalanceNative: balanceEther,
		BalanceUSD:    balanceEther * etherUSD,
		DataSource:    "etherscan",
	}
	if len(txs) == 0 {
		return m
	}

	m.TotalTransactions = len(txs)
	m.AgeDays = daysBetween(txs[0].Time(), now)
	m.LastActivityDays = daysBetween(txs[len(txs)-1].Time(), now)

	counterparties := map[string]int{}
	categories := map[reputation.ProtocolKind]bool{}
	blocksIn := map[int64]bool{}
	blocksOut := map[int64]bool{}
	efficient := 0
	var maxGapDays, postGapCount int

	for i, tx := range txs {
		value := tx.ValueEther()
		incoming := strings.ToLower(tx.To) == addr

		var cp string
		if incoming {
			m.IncomingTransactions++
			m.IncomingVolume += value
			cp = strings.ToLower(tx.From)
			blocksIn[tx.Block()] = true
		} else {
			m.OutgoingTransactions++
			m.OutgoingVolume += value
			cp = strings.ToLower(tx.To)
			blocksOut[tx.Block()] = true
		}
		if cp != "" && cp != addr {
			counterparties[cp]++
		}

		if tx.ContractCall() {
			m.ContractInteractions++
		}
		if tx.Failed() {
			m.FailedTransactions++
		}
		if kind := reputation.ProtocolCategory(cp); kind != "" {
			categories[kind] = true
		}

		if gas, err := strconv.ParseInt(tx.GasUsed, 10, 64); err == nil && gas > 0 && gas <= efficientGasLimit {
			efficient++
		}

		m.AvgTransactionValue += value
		if value > m.MaxTransactionValue {
			m.MaxTransactionValue = value
		}

		if i > 0 {
			gap := daysBetween(txs[i-1].Time(), tx.Time())
			if gap > maxGapDays {
				maxGapDays = gap
				postGapCount = len(txs) - i
			}
		}
	}

	m.AvgTransactionValue /= float64(len(txs))
	m.UniqueCounterparties = len(counterparties)
	m.ProtocolCategories = len(categories)
	m.GasEfficiency = float64(efficient) * 100 / float64(len(txs))
	m.DormancyGapDays = maxGapDays
	m.PostGapTransactions = postGapCount

	var topShare int
	for cp, count := range counterparties {
		if count > topShare {
			topShare = count
		}
		switch {
		case reputation.IsBlocklisted(cp):
			m.BlocklistedCounterparties++
		case reputation.IsMixer(cp):
			m.MixerCounterparties++
		case reputation.IsExchange(cp):
			m.KnownExchangeCounterparties++
		}
	}
	// Concentration proxy: share of traffic flowing to the single busiest
	// counterparty.
	m.ClusteringCoefficient = float64(topShare) / float64(len(txs))
	if m.ClusteringCoefficient > 1 {
		m.ClusteringCoefficient = 1
	}

	// Same-block inbound and outbound legs mark a flash-loan style pattern.
	for block := range blocksIn {
		if block != 0 && blocksOut[block] {
			m.FlashLoanCount++
		}
	}

	return m
}

// FlagsFor derives destination flags from a (possibly empty) transaction
// history and the static reputation lists.
func FlagsFor(address string, txs []Transaction, now time.Time) wallet.DestinationFlags {
	addr := strings.ToLower(address)
	flags := wallet.DestinationFlags{
		Address:       addr,
		Blocklisted:   reputation.IsBlocklisted(addr),
		KnownContract: reputation.KnownLegitimate(addr),
		HasHistory:    len(txs) > 0,
	}
	if len(txs) == 0 {
		flags.NewlySeen = true
	} else if daysBetween(txs[0].Time(), now) < newlySeenAgeDays {
		flags.NewlySeen = true
	}
	return flags
}

func daysBetween(from, to time.Time) int {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
