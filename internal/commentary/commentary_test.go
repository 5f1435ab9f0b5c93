package commentary

import (
	"context"
	"strings"
	"testing"

	"github.com/LSUDOKO/TrustLens.AI/internal/behavior"
	"github.com/LSUDOKO/TrustLens.AI/internal/risk"
	"github.com/LSUDOKO/TrustLens.AI/internal/trust"
)

func sampleInput() Input {
	return Input{
		Trust: &trust.Score{
			Address:  "0x73bceb1cd57c711fec4224d864b04132486b1be0",
			Score:    78,
			Category: trust.CategoryHigh,
		},
		Behavior: behavior.Classification{
			Matches: []behavior.Match{
				{Cluster: behavior.ClusterDeFiPower, Label: "DeFi Power User", Similarity: 0.91},
			},
		},
		Factors: []risk.Factor{
			{Type: risk.SigHighContractInteraction, Title: "High smart contract interaction", Severity: risk.SeverityLow},
		},
	}
}

func TestTemplateNarratorSummary(t *testing.T) {
	got, err := TemplateNarrator{}.Summarize(context.Background(), sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"78/100", "high trust", "defi power user", "high smart contract interaction"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %s", want, got)
		}
	}
}

func TestTemplateNarratorCleanWallet(t *testing.T) {
	in := sampleInput()
	in.Factors = nil
	in.Behavior = behavior.Classification{
		Matches: []behavior.Match{
			{Cluster: behavior.ClusterUnclassified, Label: "Unclassified", Similarity: 1},
		},
	}

	got, err := TemplateNarrator{}.Summarize(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "No risk signatures triggered") {
		t.Errorf("clean wallet summary wrong: %s", got)
	}
	if strings.Contains(got, "unclassified") {
		t.Errorf("unclassified cluster should not be narrated: %s", got)
	}
}

func TestTemplateNarratorDeterministic(t *testing.T) {
	a, _ := TemplateNarrator{}.Summarize(context.Background(), sampleInput())
	b, _ := TemplateNarrator{}.Summarize(context.Background(), sampleInput())
	if a != b {
		t.Error("template narration must be deterministic")
	}
}

func TestTemplateNarratorRequiresTrust(t *testing.T) {
	if _, err := (TemplateNarrator{}).Summarize(context.Background(), Input{}); err == nil {
		t.Error("expected error for missing trust score")
	}
}
