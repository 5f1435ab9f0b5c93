// Package analysis orchestrates the scoring engines into a single wallet
// report.
//
// The trust scorer, risk analyzer and behavioral classifier are independent
// of each other, so Run fans them out concurrently and joins the results.
// Given identical metrics the assembled report is byte-for-byte identical
// when serialized; anything time- or environment-dependent (narration,
// persistence) lives in Service, outside the report core.
package analysis

import (
	"sync"

	"github.com/LSUDOKO/TrustLens.AI/internal/behavior"
	"github.com/LSUDOKO/TrustLens.AI/internal/reputation"
	"github.com/LSUDOKO/TrustLens.AI/internal/risk"
	"github.com/LSUDOKO/TrustLens.AI/internal/trust"
	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// Report is the complete analysis of one wallet.
type Report struct {
	Address        string                  `json:"address"`
	Trust          *trust.Score            `json:"trust"`
	RiskFactors    []risk.Factor           `json:"riskFactors"`
	Behavior       behavior.Classification `json:"behavior"`
	Summary        string                  `json:"summary,omitempty"` // prose narration, presentation only
	CatalogVersion int                     `json:"catalogVersion"`
	ListVersion    string                  `json:"listVersion"`
}

// HighestRiskLevel returns the severity of the most severe triggered
// factor, or "" when the wallet is clean. Factors are already sorted most
// severe first.
func (r *Report) HighestRiskLevel() string {
	if len(r.RiskFactors) == 0 {
		return ""
	}
	return string(r.RiskFactors[0].Severity)
}

// Run validates the metrics and computes the full report. The three
// engines run concurrently; all read the same immutable metrics record.
func Run(m *wallet.Metrics) (*Report, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var (
		score    *trust.Score
		scoreErr error
		factors  []risk.Factor
		cls      behavior.Classification
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		score, scoreErr = trust.Calculate(m)
	}()
	go func() {
		defer wg.Done()
		factors = risk.Analyze(m)
	}()
	go func() {
		defer wg.Done()
		cls = behavior.Classify(m)
	}()
	wg.Wait()

	if scoreErr != nil {
		return nil, scoreErr
	}

	return &Report{
		Address:        m.Address,
		Trust:          score,
		RiskFactors:    factors,
		Behavior:       cls,
		CatalogVersion: risk.CatalogVersion,
		ListVersion:    reputation.ListVersion,
	}, nil
}
