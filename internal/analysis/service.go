package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/LSUDOKO/TrustLens.AI/internal/commentary"
	"github.com/LSUDOKO/TrustLens.AI/internal/history"
	"github.com/LSUDOKO/TrustLens.AI/internal/idgen"
	"github.com/LSUDOKO/TrustLens.AI/internal/logging"
	"github.com/LSUDOKO/TrustLens.AI/internal/metrics"
	"github.com/LSUDOKO/TrustLens.AI/internal/simulator"
	"github.com/LSUDOKO/TrustLens.AI/internal/traces"
	"github.com/LSUDOKO/TrustLens.AI/internal/trust"
	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// MetricsSource supplies wallet metrics and destination flags. The chain
// data provider implements it; tests substitute fixtures.
type MetricsSource interface {
	WalletMetrics(ctx context.Context, address string) (*wallet.Metrics, error)
	DestinationFlags(ctx context.Context, address string) (wallet.DestinationFlags, error)
}

// Service wires the report core to data sources, persistence and
// narration.
type Service struct {
	source   MetricsSource
	store    history.Store       // optional
	narrator commentary.Narrator // optional
	fallback commentary.TemplateNarrator
}

// NewService builds the analysis service. store and narrator may be nil;
// the corresponding features are skipped.
func NewService(source MetricsSource, store history.Store, narrator commentary.Narrator) *Service {
	return &Service{source: source, store: store, narrator: narrator}
}

// AnalyzeWallet fetches metrics for an address and produces the full
// report. Narration and persistence are best-effort: their failures are
// logged, never surfaced.
func (s *Service) AnalyzeWallet(ctx context.Context, address string) (*Report, error) {
	ctx, span := traces.StartSpan(ctx, "analysis.AnalyzeWallet", traces.WalletAddr(address))
	defer span.End()
	timer := prometheus.NewTimer(metrics.AnalysisDuration)
	defer timer.ObserveDuration()

	m, err := s.source.WalletMetrics(ctx, address)
	if err != nil {
		return nil, err
	}

	report, err := Run(m)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(traces.TrustCategory(string(report.Trust.Category)))
	metrics.AnalysesTotal.WithLabelValues(string(report.Trust.Category)).Inc()
	for _, f := range report.RiskFactors {
		metrics.RiskSignaturesTotal.WithLabelValues(string(f.Type)).Inc()
	}

	report.Summary = s.narrate(ctx, report)
	s.persist(ctx, report)

	return report, nil
}

// SimulateTransaction scores the source wallet, flags the destination and
// runs the transaction simulator.
func (s *Service) SimulateTransaction(ctx context.Context, from, to string, amount float64) (*simulator.Assessment, error) {
	ctx, span := traces.StartSpan(ctx, "analysis.SimulateTransaction",
		traces.WalletAddr(from))
	defer span.End()

	m, err := s.source.WalletMetrics(ctx, from)
	if err != nil {
		return nil, err
	}
	score, err := trust.Calculate(m)
	if err != nil {
		return nil, err
	}
	flags, err := s.source.DestinationFlags(ctx, to)
	if err != nil {
		return nil, err
	}

	assessment, err := simulator.Simulate(simulator.Request{
		Source:      m,
		TrustScore:  score.Score,
		Destination: flags,
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(traces.RiskLevel(string(assessment.RiskLevel)))
	metrics.SimulationsTotal.WithLabelValues(string(assessment.RiskLevel)).Inc()
	return assessment, nil
}

// History returns recorded snapshots for an address, newest first.
func (s *Service) History(ctx context.Context, address string, limit int) ([]*history.Snapshot, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListByAddress(ctx, address, limit)
}

// Trend returns the trust score delta over the window.
func (s *Service) Trend(ctx context.Context, address string, window time.Duration) (int, int, error) {
	if s.store == nil {
		return 0, 0, history.ErrSnapshotNotFound
	}
	return s.store.Trend(ctx, address, window)
}

func (s *Service) narrate(ctx context.Context, report *Report) string {
	in := commentary.Input{
		Trust:    report.Trust,
		Factors:  report.RiskFactors,
		Behavior: report.Behavior,
	}

	if s.narrator != nil {
		summary, err := s.narrator.Summarize(ctx, in)
		if err == nil {
			return summary
		}
		logging.L(ctx).Warn("narration failed, using template fallback", "error", err)
	}

	summary, err := s.fallback.Summarize(ctx, in)
	if err != nil {
		return ""
	}
	return summary
}

func (s *Service) persist(ctx context.Context, report *Report) {
	if s.store == nil {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		logging.L(ctx).Error("snapshot encoding failed", "address", report.Address, "error", err)
		return
	}

	snap := &history.Snapshot{
		ID:             idgen.WithPrefix("ana_"),
		Address:        report.Address,
		TrustScore:     report.Trust.Score,
		Category:       string(report.Trust.Category),
		Confidence:     report.Trust.Confidence,
		RiskLevel:      report.HighestRiskLevel(),
		Cluster:        string(report.Behavior.Primary().Cluster),
		CatalogVersion: report.CatalogVersion,
		Report:         raw,
		RecordedAt:     time.Now().UTC(),
	}
	if err := s.store.Record(ctx, snap); err != nil {
		logging.L(ctx).Error("snapshot persistence failed", "address", report.Address, "error", err)
	}
}
