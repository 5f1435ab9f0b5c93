package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the configuration for connecting to the TrustLens API.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// TrustLensClient is a pure HTTP client for the TrustLens API.
type TrustLensClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewTrustLensClient creates a new client for the TrustLens API.
func NewTrustLensClient(cfg Config) *TrustLensClient {
	return &TrustLensClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the API and returns the response body.
func (c *TrustLensClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// AnalyzeWallet runs the full trust analysis for an address.
func (c *TrustLensClient) AnalyzeWallet(ctx context.Context, address string, refresh bool) (json.RawMessage, error) {
	q := url.Values{}
	if refresh {
		q.Set("refresh", "true")
	}
	path := "/v1/wallets/" + address + "/analysis"
	return c.doRequest(ctx, http.MethodGet, path, q, nil)
}

// SimulateTransaction assesses a proposed transfer before it is sent.
func (c *TrustLensClient) SimulateTransaction(ctx context.Context, from, to string, amount float64) (json.RawMessage, error) {
	body := map[string]any{
		"from":   from,
		"to":     to,
		"amount": amount,
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/simulate", nil, body)
}

// WalletHistory lists recorded analysis snapshots for an address.
func (c *TrustLensClient) WalletHistory(ctx context.Context, address string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/v1/wallets/" + address + "/history"
	return c.doRequest(ctx, http.MethodGet, path, q, nil)
}

// TrustTrend returns the score delta over a time window.
func (c *TrustLensClient) TrustTrend(ctx context.Context, address, window string) (json.RawMessage, error) {
	q := url.Values{}
	if window != "" {
		q.Set("window", window)
	}
	path := "/v1/wallets/" + address + "/trend"
	return c.doRequest(ctx, http.MethodGet, path, q, nil)
}
