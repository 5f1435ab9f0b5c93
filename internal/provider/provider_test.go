package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

const (
	testAddr  = "0x73bceb1cd57c711fec4224d864b04132486b1be0"
	otherAddr = "0x1f9090aae28b8a3dceadf281b0f12828e676c326"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

const oneEtherWei = "1000000000000000000"

func tx(daysAgo int, block int64, from, to, valueWei string) Transaction {
	return Transaction{
		BlockNumber: strconv.FormatInt(block, 10),
		TimeStamp:   strconv.FormatInt(testNow.AddDate(0, 0, -daysAgo).Unix(), 10),
		Hash:        fmt.Sprintf("0xhash%d", block),
		From:        from,
		To:          to,
		Value:       valueWei,
		IsError:     "0",
		Input:       "0x",
		GasUsed:     "21000",
		GasPrice:    "20000000000",
	}
}

func TestBuildMetricsAggregation(t *testing.T) {
	in1 := tx(100, 100, otherAddr, testAddr, oneEtherWei)
	in2 := tx(50, 200, otherAddr, testAddr, oneEtherWei)
	out1 := tx(5, 300, testAddr, otherAddr, "2000000000000000000")
	out1.IsError = "1"
	out1.Input = "0xa9059cbb"

	m := BuildMetrics(testAddr, []Transaction{in1, in2, out1}, 3.5, 2000, testNow)

	if m.TotalTransactions != 3 {
		t.Errorf("total = %d, want 3", m.TotalTransactions)
	}
	if m.IncomingTransactions != 2 || m.OutgoingTransactions != 1 {
		t.Errorf("in/out = %d/%d, want 2/1", m.IncomingTransactions, m.OutgoingTransactions)
	}
	if m.IncomingVolume != 2 || m.OutgoingVolume != 2 {
		t.Errorf("volumes = %f/%f, want 2/2", m.IncomingVolume, m.OutgoingVolume)
	}
	if m.AgeDays != 100 {
		t.Errorf("age = %d, want 100", m.AgeDays)
	}
	if m.LastActivityDays != 5 {
		t.Errorf("last activity = %d, want 5", m.LastActivityDays)
	}
	if m.UniqueCounterparties != 1 {
		t.Errorf("counterparties = %d, want 1", m.UniqueCounterparties)
	}
	if m.FailedTransactions != 1 {
		t.Errorf("failed = %d, want 1", m.FailedTransactions)
	}
	if m.ContractInteractions != 1 {
		t.Errorf("contract interactions = %d, want 1", m.ContractInteractions)
	}
	if m.BalanceNative != 3.5 || m.BalanceUSD != 7000 {
		t.Errorf("balance = %f native / %f USD, want 3.5 / 7000", m.BalanceNative, m.BalanceUSD)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("built metrics must validate: %v", err)
	}
}

func TestBuildMetricsEmptyHistory(t *testing.T) {
	m := BuildMetrics(testAddr, nil, 0, 0, testNow)
	if m.TotalTransactions != 0 || m.AgeDays != 0 {
		t.Errorf("empty history should produce zeroed activity, got %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("empty metrics must validate: %v", err)
	}
}

func TestBuildMetricsAverageSpansAllTransactions(t *testing.T) {
	// Zero-value contract calls count toward the average alongside transfers.
	call := tx(20, 400, testAddr, otherAddr, "0")
	call.Input = "0xa9059cbb"
	txs := []Transaction{
		tx(100, 100, otherAddr, testAddr, oneEtherWei),
		tx(50, 200, otherAddr, testAddr, oneEtherWei),
		call,
	}
	m := BuildMetrics(testAddr, txs, 1, 0, testNow)
	want := 2.0 / 3.0
	if diff := m.AvgTransactionValue - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("avg transaction value = %f, want %f", m.AvgTransactionValue, want)
	}
}

func TestBuildMetricsFlashLoanDetection(t *testing.T) {
	// Inbound and outbound legs in the same block on three blocks.
	var txs []Transaction
	for i := int64(0); i < 3; i++ {
		txs = append(txs,
			tx(10, 500+i, otherAddr, testAddr, oneEtherWei),
			tx(10, 500+i, testAddr, otherAddr, oneEtherWei),
		)
	}
	m := BuildMetrics(testAddr, txs, 1, 0, testNow)
	if m.FlashLoanCount != 3 {
		t.Errorf("flash loan count = %d, want 3", m.FlashLoanCount)
	}
}

func TestBuildMetricsDormancyGap(t *testing.T) {
	txs := []Transaction{
		tx(800, 100, otherAddr, testAddr, oneEtherWei),
		tx(790, 110, otherAddr, testAddr, oneEtherWei),
		// 600 day gap, then a burst.
		tx(10, 900, testAddr, otherAddr, oneEtherWei),
		tx(9, 901, testAddr, otherAddr, oneEtherWei),
		tx(8, 902, testAddr, otherAddr, oneEtherWei),
	}
	m := BuildMetrics(testAddr, txs, 1, 0, testNow)
	if m.DormancyGapDays != 780 {
		t.Errorf("dormancy gap = %d, want 780", m.DormancyGapDays)
	}
	if m.PostGapTransactions != 3 {
		t.Errorf("post-gap transactions = %d, want 3", m.PostGapTransactions)
	}
}

func TestFlagsFor(t *testing.T) {
	fresh := FlagsFor(otherAddr, []Transaction{tx(2, 100, testAddr, otherAddr, oneEtherWei)}, testNow)
	if !fresh.NewlySeen || !fresh.HasHistory {
		t.Errorf("2-day-old destination should be newly seen with history, got %+v", fresh)
	}

	unseen := FlagsFor(otherAddr, nil, testNow)
	if !unseen.NewlySeen || unseen.HasHistory {
		t.Errorf("unseen destination flags wrong: %+v", unseen)
	}

	sanctioned := FlagsFor("0x7f367cc41522ce07553e823bf3be79a889debe1b", nil, testNow)
	if !sanctioned.Blocklisted {
		t.Error("sanctioned destination must be flagged")
	}
}

func etherscanStub(t *testing.T, handler http.HandlerFunc) *EtherscanClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewEtherscanClient(srv.URL, "testkey", 5*time.Second)
}

func TestTransactionHistorySuccess(t *testing.T) {
	c := etherscanStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "testkey" {
			t.Error("api key not forwarded")
		}
		fmt.Fprintf(w, `{"status":"1","message":"OK","result":[
			{"blockNumber":"100","timeStamp":"1700000000","hash":"0xabc",
			 "from":"%s","to":"%s","value":"%s","isError":"0","input":"0x",
			 "gasUsed":"21000","gasPrice":"1"}]}`, otherAddr, testAddr, oneEtherWei)
	})

	txs, err := c.TransactionHistory(context.Background(), testAddr)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 || txs[0].Hash != "0xabc" {
		t.Errorf("unexpected transactions: %+v", txs)
	}
	if txs[0].ValueEther() != 1 {
		t.Errorf("value = %f ether, want 1", txs[0].ValueEther())
	}
}

func TestTransactionHistoryEmpty(t *testing.T) {
	c := etherscanStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"No transactions found","result":[]}`)
	})

	_, err := c.TransactionHistory(context.Background(), testAddr)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionHistoryServerErrorRetries(t *testing.T) {
	calls := 0
	c := etherscanStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.TransactionHistory(context.Background(), testAddr)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if calls != retryAttempts {
		t.Errorf("expected %d attempts, got %d", retryAttempts, calls)
	}
}

func TestTransactionHistoryMalformedBodyNotRetried(t *testing.T) {
	calls := 0
	c := etherscanStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"status":`)
	})

	_, err := c.TransactionHistory(context.Background(), testAddr)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if calls != 1 {
		t.Errorf("malformed response must not be retried, got %d attempts", calls)
	}
}

func TestWalletMetricsRejectsMalformedAddress(t *testing.T) {
	svc := NewService(etherscanStub(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for malformed input")
	}), nil, nil)

	if _, err := svc.WalletMetrics(context.Background(), "bogus"); err == nil {
		t.Error("expected validation error")
	}
}

func TestWalletMetricsUnknownAddress(t *testing.T) {
	svc := NewService(etherscanStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"No transactions found","result":[]}`)
	}), nil, nil)

	_, err := svc.WalletMetrics(context.Background(), testAddr)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("address with no history must surface ErrNotFound, got %v", err)
	}
}

func TestDestinationFlagsUnknownAddress(t *testing.T) {
	svc := NewService(etherscanStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"No transactions found","result":[]}`)
	}), nil, nil)

	flags, err := svc.DestinationFlags(context.Background(), otherAddr)
	if err != nil {
		t.Fatalf("unknown destination must not fail the simulation: %v", err)
	}
	if !flags.NewlySeen || flags.HasHistory {
		t.Errorf("unknown destination flags wrong: %+v", flags)
	}
}
