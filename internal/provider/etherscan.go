// Package provider fetches on-chain wallet data and condenses it into the
// metrics record the analysis engines consume.
//
// Etherscan supplies transaction history, the JSON-RPC node supplies live
// balances, and the static reputation lists annotate counterparties. All
// upstream calls are context-aware, retried with backoff, and guarded by a
// circuit breaker per upstream.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LSUDOKO/TrustLens.AI/internal/circuitbreaker"
	"github.com/LSUDOKO/TrustLens.AI/internal/logging"
	"github.com/LSUDOKO/TrustLens.AI/internal/metrics"
	"github.com/LSUDOKO/TrustLens.AI/internal/retry"
)

// Upstream failure modes.
var (
	ErrRateLimited = errors.New("provider: upstream rate limit exceeded")
	ErrUnavailable = errors.New("provider: upstream unavailable")
	ErrNotFound    = errors.New("provider: address has no transaction history")
)

const (
	etherscanBreakerKey = "etherscan"
	maxTxPerPage        = 10000

	retryAttempts  = 3
	retryBaseDelay = 200 * time.Millisecond
)

// Transaction is one row of an address's Etherscan transaction history.
// Numeric fields stay strings on the wire; accessors parse on demand.
type Transaction struct {
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"` // wei
	IsError     string `json:"isError"`
	Input       string `json:"input"`
	GasUsed     string `json:"gasUsed"`
	GasPrice    string `json:"gasPrice"`
}

// Failed reports whether the transaction reverted.
func (t Transaction) Failed() bool { return t.IsError == "1" }

// ContractCall reports whether the transaction carried calldata.
func (t Transaction) ContractCall() bool { return len(t.Input) > 2 }

// ValueEther returns the transferred value in whole ether.
func (t Transaction) ValueEther() float64 {
	wei, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return 0
	}
	return wei / 1e18
}

// Time returns the block timestamp.
func (t Transaction) Time() time.Time {
	sec, err := strconv.ParseInt(t.TimeStamp, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// Block returns the block number, or 0 when unparseable.
func (t Transaction) Block() int64 {
	n, _ := strconv.ParseInt(t.BlockNumber, 10, 64)
	return n
}

// EtherscanClient is a typed client for the Etherscan account API.
type EtherscanClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *circuitbreaker.Breaker
}

// NewEtherscanClient builds a client against the given API base URL.
func NewEtherscanClient(baseURL, apiKey string, timeout time.Duration) *EtherscanClient {
	return &EtherscanClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		breaker:    circuitbreaker.New(5, 30*time.Second),
	}
}

type txListResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// TransactionHistory fetches up to one page of an address's transactions,
// oldest first. Returns ErrNotFound for addresses with no history.
func (c *EtherscanClient) TransactionHistory(ctx context.Context, address string) ([]Transaction, error) {
	if !c.breaker.Allow(etherscanBreakerKey) {
		metrics.ProviderRequestsTotal.WithLabelValues("etherscan", "circuit_open").Inc()
		return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
	}

	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "txlist")
	q.Set("address", address)
	q.Set("startblock", "0")
	q.Set("endblock", "99999999")
	q.Set("page", "1")
	q.Set("offset", strconv.Itoa(maxTxPerPage))
	q.Set("sort", "asc")
	q.Set("apikey", c.apiKey)

	var txs []Transaction
	err := retry.Do(ctx, retryAttempts, retryBaseDelay, func() error {
		var err error
		txs, err = c.fetchTxList(ctx, q)
		return err
	})
	if err != nil {
		c.breaker.RecordFailure(etherscanBreakerKey)
		metrics.ProviderRequestsTotal.WithLabelValues("etherscan", "error").Inc()
		logging.L(ctx).Warn("etherscan request failed", "address", address, "error", err)
		return nil, err
	}

	c.breaker.RecordSuccess(etherscanBreakerKey)
	metrics.ProviderRequestsTotal.WithLabelValues("etherscan", "success").Inc()

	if len(txs) == 0 {
		return nil, ErrNotFound
	}
	return txs, nil
}

func (c *EtherscanClient) fetchTxList(ctx context.Context, q url.Values) ([]Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed txListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, retry.Permanent(fmt.Errorf("provider: malformed etherscan response: %w", err))
	}

	// Etherscan reports "no transactions found" as status 0 with an empty
	// result array; real failures carry a string result.
	if parsed.Status != "1" {
		var txs []Transaction
		if err := json.Unmarshal(parsed.Result, &txs); err == nil && len(txs) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, parsed.Message)
	}

	var txs []Transaction
	if err := json.Unmarshal(parsed.Result, &txs); err != nil {
		return nil, retry.Permanent(fmt.Errorf("provider: malformed transaction list: %w", err))
	}
	return txs, nil
}
