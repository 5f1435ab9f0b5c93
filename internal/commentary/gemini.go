package commentary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const promptPreamble = `You are a blockchain analyst. Summarize the following wallet
trust analysis in two or three plain sentences for a non-technical reader.
Mention the score, the trust category, and the most important risk factor
if any. Do not invent facts beyond the data given.`

// GeminiNarrator summarizes analyses with the Gemini API.
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

// NewGeminiNarrator builds a narrator against the Gemini API.
func NewGeminiNarrator(ctx context.Context, apiKey, model string) (*GeminiNarrator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("commentary: gemini client: %w", err)
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

func (g *GeminiNarrator) Summarize(ctx context.Context, in Input) (string, error) {
	if in.Trust == nil {
		return "", fmt.Errorf("commentary: trust score is required")
	}

	payload, err := json.Marshal(map[string]any{
		"score":      in.Trust.Score,
		"category":   in.Trust.Category,
		"confidence": in.Trust.Confidence,
		"components": in.Trust.Components,
		"behavior":   in.Behavior.Primary().Label,
		"factors":    in.Factors,
	})
	if err != nil {
		return "", fmt.Errorf("commentary: encode analysis: %w", err)
	}

	prompt := promptPreamble + "\n\n" + string(payload)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("commentary: generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("commentary: empty model response")
	}
	return text, nil
}
