package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *TrustLensClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *TrustLensClient) *Handlers {
	return &Handlers{client: client}
}

// HandleAnalyzeWallet runs the full trust analysis for an address.
func (h *Handlers) HandleAnalyzeWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}
	refresh := req.GetBool("refresh", false)

	raw, err := h.client.AnalyzeWallet(ctx, address, refresh)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
	}

	text, err := formatReport(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse report: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleSimulateTransaction assesses a proposed transfer.
func (h *Handlers) HandleSimulateTransaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	if from == "" {
		return mcp.NewToolResultError("from is required"), nil
	}
	to := req.GetString("to", "")
	if to == "" {
		return mcp.NewToolResultError("to is required"), nil
	}
	amount := req.GetFloat("amount", 0)

	raw, err := h.client.SimulateTransaction(ctx, from, to, amount)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Simulation failed: %v", err)), nil
	}

	text, err := formatAssessment(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse assessment: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetWalletHistory lists recorded analysis snapshots.
func (h *Handlers) HandleGetWalletHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}
	limit := req.GetInt("limit", 20)

	raw, err := h.client.WalletHistory(ctx, address, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch history: %v", err)), nil
	}

	text, err := formatHistory(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse history: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetTrustTrend returns the score delta over a window.
func (h *Handlers) HandleGetTrustTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}
	window := req.GetString("window", "")

	raw, err := h.client.TrustTrend(ctx, address, window)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch trend: %v", err)), nil
	}

	text, err := formatTrend(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse trend: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// --- Formatting helpers ---

type reportView struct {
	Address string `json:"address"`
	Trust   struct {
		Score      int     `json:"score"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Components map[string]struct {
			Score      int     `json:"score"`
			Confidence float64 `json:"confidence"`
		} `json:"components"`
	} `json:"trust"`
	RiskFactors []struct {
		Title          string  `json:"title"`
		Severity       string  `json:"severity"`
		Confidence     float64 `json:"confidence"`
		Evidence       string  `json:"evidence"`
		Recommendation string  `json:"recommendation"`
	} `json:"riskFactors"`
	Behavior struct {
		Matches []struct {
			Label      string  `json:"label"`
			Similarity float64 `json:"similarity"`
		} `json:"matches"`
	} `json:"behavior"`
	Summary        string `json:"summary"`
	CatalogVersion int    `json:"catalogVersion"`
}

func formatReport(raw json.RawMessage) (string, error) {
	var r reportView
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Trust analysis for %s\n\n", r.Address)
	fmt.Fprintf(&sb, "Trust score: %d/100 (%s, confidence %.0f%%)\n",
		r.Trust.Score, r.Trust.Category, r.Trust.Confidence*100)

	if len(r.Trust.Components) > 0 {
		sb.WriteString("\nComponents:\n")
		// Stable presentation order
		for _, name := range []string{"balance", "activity", "age", "quality", "network", "riskFactor"} {
			if c, ok := r.Trust.Components[name]; ok {
				fmt.Fprintf(&sb, "  %-10s %3d/100\n", name, c.Score)
			}
		}
	}

	if len(r.RiskFactors) == 0 {
		sb.WriteString("\nRisk signatures: none triggered\n")
	} else {
		fmt.Fprintf(&sb, "\nRisk signatures (%d):\n", len(r.RiskFactors))
		for _, f := range r.RiskFactors {
			fmt.Fprintf(&sb, "  [%s] %s (confidence %.0f%%)\n", strings.ToUpper(f.Severity), f.Title, f.Confidence*100)
			if f.Evidence != "" {
				fmt.Fprintf(&sb, "      %s\n", f.Evidence)
			}
		}
	}

	if len(r.Behavior.Matches) > 0 {
		parts := make([]string, len(r.Behavior.Matches))
		for i, m := range r.Behavior.Matches {
			parts[i] = fmt.Sprintf("%s (similarity %.2f)", m.Label, m.Similarity)
		}
		fmt.Fprintf(&sb, "\nBehavior: %s\n", strings.Join(parts, ", "))
	}
	if r.Summary != "" {
		fmt.Fprintf(&sb, "\n%s\n", r.Summary)
	}

	return sb.String(), nil
}

func formatAssessment(raw json.RawMessage) (string, error) {
	var a struct {
		RiskScore       int      `json:"riskScore"`
		RiskLevel       string   `json:"riskLevel"`
		LossProbability float64  `json:"lossProbability"`
		Warnings        []string `json:"warnings"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transaction risk: %d/100 (%s)\n", a.RiskScore, a.RiskLevel)
	fmt.Fprintf(&sb, "Estimated loss probability: %.0f%%\n", a.LossProbability*100)

	if len(a.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", w)
		}
	}
	if len(a.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&sb, "  - %s\n", r)
		}
	}

	return sb.String(), nil
}

func formatHistory(raw json.RawMessage) (string, error) {
	var resp struct {
		Address   string `json:"address"`
		Snapshots []struct {
			TrustScore int    `json:"trustScore"`
			Category   string `json:"category"`
			RiskLevel  string `json:"riskLevel"`
			RecordedAt string `json:"recordedAt"`
		} `json:"snapshots"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	if len(resp.Snapshots) == 0 {
		return fmt.Sprintf("No recorded analyses for %s yet. Run analyze_wallet first.", resp.Address), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analysis history for %s (%d snapshot(s), newest first):\n\n", resp.Address, len(resp.Snapshots))
	for i, s := range resp.Snapshots {
		fmt.Fprintf(&sb, "%d. score %d (%s)", i+1, s.TrustScore, s.Category)
		if s.RiskLevel != "" {
			fmt.Fprintf(&sb, ", risk %s", s.RiskLevel)
		}
		fmt.Fprintf(&sb, " at %s\n", s.RecordedAt)
	}
	return sb.String(), nil
}

func formatTrend(raw json.RawMessage) (string, error) {
	var resp struct {
		Address string `json:"address"`
		Window  string `json:"window"`
		Delta   int    `json:"delta"`
		Samples int    `json:"samples"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	direction := "stable"
	switch {
	case resp.Delta > 0:
		direction = "improving"
	case resp.Delta < 0:
		direction = "deteriorating"
	}

	return fmt.Sprintf(
		"Trust trend for %s over %s: %+d points (%s, %d sample(s))",
		resp.Address, resp.Window, resp.Delta, direction, resp.Samples), nil
}
