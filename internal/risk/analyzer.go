package risk

import (
	"sort"

	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// Analyze evaluates the full signature catalog against a wallet's metrics
// and returns every triggered factor, most severe first. Ties on severity
// break on confidence descending, then on catalog declaration order, so
// repeated calls on equal metrics produce identical slices.
func Analyze(m *wallet.Metrics) []Factor {
	type hit struct {
		factor Factor
		index  int
	}
	var hits []hit
	for i, sig := range catalog {
		if !sig.triggered(m) {
			continue
		}
		hits = append(hits, hit{
			factor: Factor{
				Type:           sig.typ,
				Title:          sig.title,
				Severity:       sig.severity,
				Confidence:     sig.confidence(m),
				ImpactScore:    sig.impact,
				Evidence:       sig.evidence(m),
				Recommendation: sig.recommendation,
			},
			index: i,
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		fa, fb := hits[a].factor, hits[b].factor
		if fa.Severity.Rank() != fb.Severity.Rank() {
			return fa.Severity.Rank() > fb.Severity.Rank()
		}
		if fa.Confidence != fb.Confidence {
			return fa.Confidence > fb.Confidence
		}
		return hits[a].index < hits[b].index
	})

	factors := make([]Factor, len(hits))
	for i, h := range hits {
		factors[i] = h.factor
	}
	return factors
}

// Severities returns the severity of every triggered signature without
// building evidence strings. Used by the trust scorer, which only needs
// the severity histogram.
func Severities(m *wallet.Metrics) []Severity {
	var out []Severity
	for _, sig := range catalog {
		if sig.triggered(m) {
			out = append(out, sig.severity)
		}
	}
	return out
}

// HighestSeverity returns the most severe triggered signature, or "" when
// the wallet is clean.
func HighestSeverity(m *wallet.Metrics) Severity {
	best := Severity("")
	rank := -1
	for _, sig := range catalog {
		if sig.triggered(m) && sig.severity.Rank() > rank {
			best = sig.severity
			rank = sig.severity.Rank()
		}
	}
	return best
}
