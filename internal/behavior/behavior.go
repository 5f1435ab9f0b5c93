// Package behavior classifies wallets into behavioral clusters.
//
// Each cluster is a prototype: a set of target feature values in
// log-compressed space with per-feature weights. A wallet's similarity to a
// prototype is one minus its weighted normalized distance. Every prototype
// at or above the similarity threshold is reported, strongest first; a
// wallet may legitimately resemble several clusters at once. When nothing
// clears the threshold the wallet is reported as unclassified.
// Classification is pure and deterministic.
package behavior

import (
	"math"
	"sort"

	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// ClusterType identifies a behavioral cluster.
type ClusterType string

const (
	ClusterWhale        ClusterType = "whale"
	ClusterDeFiPower    ClusterType = "defi_power_user"
	ClusterTrader       ClusterType = "trader"
	ClusterNewUser      ClusterType = "new_user"
	ClusterDormant      ClusterType = "dormant"
	ClusterUnclassified ClusterType = "unclassified"
)

// SimilarityThreshold is the minimum similarity for a prototype match.
// When no prototype reaches it the wallet is reported as unclassified.
const SimilarityThreshold = 0.5

// Candidate is one prototype's similarity to the wallet, kept for
// explainability regardless of whether it cleared the threshold.
type Candidate struct {
	Cluster    ClusterType `json:"cluster"`
	Similarity float64     `json:"similarity"`
}

// Match is one cluster whose similarity cleared the threshold.
type Match struct {
	Cluster     ClusterType `json:"cluster"`
	Label       string      `json:"label"`
	Similarity  float64     `json:"similarity"`
	Description string      `json:"description"`
}

// Classification is the classifier's verdict for one wallet: every matched
// cluster in descending similarity order, plus the full candidate table.
// Matches is never empty; a wallet resembling no prototype carries the
// unclassified match alone at similarity 1.0.
type Classification struct {
	Matches    []Match     `json:"matches"`
	Candidates []Candidate `json:"candidates"`
}

var unclassifiedMatch = Match{
	Cluster:     ClusterUnclassified,
	Label:       "Unclassified",
	Similarity:  1.0,
	Description: "Activity does not resemble any known behavioral profile.",
}

// Primary returns the strongest match.
func (c Classification) Primary() Match {
	if len(c.Matches) == 0 {
		return unclassifiedMatch
	}
	return c.Matches[0]
}

// Classify matches the wallet against every prototype and returns all
// matches at or above the threshold, strongest first. Ties on similarity
// resolve to the earlier prototype in the catalog, so equal metrics always
// classify identically.
func Classify(m *wallet.Metrics) Classification {
	f := featuresOf(m)

	sims := make([]float64, len(prototypes))
	order := make([]int, len(prototypes))
	for i, p := range prototypes {
		sims[i] = p.similarity(f)
		order[i] = i
	}

	// Stable sort keeps catalog order between equal similarities.
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})

	candidates := make([]Candidate, len(order))
	var matches []Match
	for rank, i := range order {
		candidates[rank] = Candidate{Cluster: prototypes[i].cluster, Similarity: sims[i]}
		if sims[i] >= SimilarityThreshold {
			matches = append(matches, Match{
				Cluster:     prototypes[i].cluster,
				Label:       prototypes[i].label,
				Similarity:  sims[i],
				Description: prototypes[i].description,
			})
		}
	}

	if len(matches) == 0 {
		matches = []Match{unclassifiedMatch}
	}

	return Classification{Matches: matches, Candidates: candidates}
}

// features is the wallet projected into the classifier's feature space.
// Count-like dimensions are log10-compressed so decade differences, not
// absolute ones, drive distance.
type features struct {
	balanceLog      float64
	txLog           float64
	ageLog          float64
	lastActivityLog float64
	counterpartyLog float64
	contractRatio   float64
	diversity       float64
}

func featuresOf(m *wallet.Metrics) features {
	return features{
		balanceLog:      math.Log10(m.BalanceUSD + 1),
		txLog:           math.Log10(float64(m.TotalTransactions) + 1),
		ageLog:          math.Log10(float64(m.AgeDays) + 1),
		lastActivityLog: math.Log10(float64(m.LastActivityDays) + 1),
		counterpartyLog: math.Log10(float64(m.UniqueCounterparties) + 1),
		contractRatio:   m.ContractRatio(),
		diversity:       math.Min(1, float64(m.ProtocolCategories)/4),
	}
}
