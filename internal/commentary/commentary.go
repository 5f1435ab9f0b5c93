// Package commentary turns analysis results into short prose summaries.
//
// The template narrator is deterministic and always available; the Gemini
// narrator produces richer prose when an API key is configured. Narration
// is presentation only and never feeds back into scoring.
package commentary

import (
	"context"
	"fmt"
	"strings"

	"github.com/LSUDOKO/TrustLens.AI/internal/behavior"
	"github.com/LSUDOKO/TrustLens.AI/internal/risk"
	"github.com/LSUDOKO/TrustLens.AI/internal/trust"
)

// Input carries everything a narrator may reference.
type Input struct {
	Trust    *trust.Score
	Factors  []risk.Factor
	Behavior behavior.Classification
}

// Narrator produces a prose summary of a wallet analysis.
type Narrator interface {
	Summarize(ctx context.Context, in Input) (string, error)
}

// TemplateNarrator renders a fixed-template summary. Deterministic, no
// external calls.
type TemplateNarrator struct{}

func (TemplateNarrator) Summarize(_ context.Context, in Input) (string, error) {
	if in.Trust == nil {
		return "", fmt.Errorf("commentary: trust score is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wallet %s scores %d/100 (%s)",
		shortAddr(in.Trust.Address), in.Trust.Score, categoryPhrase(in.Trust.Category))

	if p := in.Behavior.Primary(); p.Cluster != behavior.ClusterUnclassified {
		fmt.Fprintf(&b, " and behaves like a %s", strings.ToLower(p.Label))
	}
	b.WriteString(". ")

	switch len(in.Factors) {
	case 0:
		b.WriteString("No risk signatures triggered.")
	case 1:
		fmt.Fprintf(&b, "One risk signature triggered: %s.", strings.ToLower(in.Factors[0].Title))
	default:
		fmt.Fprintf(&b, "%d risk signatures triggered; the most severe is %s.",
			len(in.Factors), strings.ToLower(in.Factors[0].Title))
	}

	return b.String(), nil
}

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func categoryPhrase(c trust.Category) string {
	switch c {
	case trust.CategoryExceptional:
		return "exceptional trust"
	case trust.CategoryHigh:
		return "high trust"
	case trust.CategoryModerate:
		return "moderate trust"
	case trust.CategoryCaution:
		return "caution advised"
	case trust.CategoryHighRisk:
		return "high risk"
	default:
		return "critical risk"
	}
}
