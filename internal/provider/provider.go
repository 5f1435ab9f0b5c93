package provider

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/LSUDOKO/TrustLens.AI/internal/logging"
	"github.com/LSUDOKO/TrustLens.AI/internal/validation"
	"github.com/LSUDOKO/TrustLens.AI/internal/wallet"
)

// ChainReader is the subset of the JSON-RPC client the provider needs.
// *ethclient.Client satisfies it.
type ChainReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Pricer converts native balances to USD.
type Pricer interface {
	EtherUSD(ctx context.Context) (float64, error)
}

// StaticPricer returns a fixed exchange rate. A zero rate means pricing is
// unavailable; downstream scoring degrades confidence instead of failing.
type StaticPricer float64

func (p StaticPricer) EtherUSD(context.Context) (float64, error) { return float64(p), nil }

// Dial connects to the JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Service assembles wallet metrics from the upstream data sources.
type Service struct {
	etherscan *EtherscanClient
	chain     ChainReader
	pricer    Pricer
	now       func() time.Time
}

// NewService wires the upstream clients. chain and pricer may be nil; the
// affected fields degrade to zero values with reduced scoring confidence.
func NewService(etherscan *EtherscanClient, chain ChainReader, pricer Pricer) *Service {
	return &Service{
		etherscan: etherscan,
		chain:     chain,
		pricer:    pricer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WalletMetrics fetches and condenses everything known about an address.
// A malformed address is a typed validation error. An address with no
// transaction history surfaces ErrNotFound rather than a fabricated
// zero-activity record; other missing upstream pieces (balance, pricing)
// degrade the record instead of failing the fetch.
func (s *Service) WalletMetrics(ctx context.Context, address string) (*wallet.Metrics, error) {
	address = validation.SanitizeAddress(address)
	if verrs := validation.Validate(
		validation.Required("address", address),
		validation.ValidAddress("address", address),
	); len(verrs) > 0 {
		return nil, verrs
	}

	txs, err := s.etherscan.TransactionHistory(ctx, address)
	if err != nil {
		return nil, err
	}

	balance := s.balanceEther(ctx, address)
	price := s.etherUSD(ctx)

	m := BuildMetrics(address, txs, balance, price, s.now())
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// DestinationFlags derives the simulator's view of a destination address.
// A destination with no history is not an error here; it yields the
// newly-seen flags a brand-new counterparty deserves.
func (s *Service) DestinationFlags(ctx context.Context, address string) (wallet.DestinationFlags, error) {
	address = validation.SanitizeAddress(address)
	if verrs := validation.Validate(
		validation.Required("address", address),
		validation.ValidAddress("address", address),
	); len(verrs) > 0 {
		return wallet.DestinationFlags{}, verrs
	}

	txs, err := s.etherscan.TransactionHistory(ctx, address)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return wallet.DestinationFlags{}, err
	}
	return FlagsFor(address, txs, s.now()), nil
}

func (s *Service) balanceEther(ctx context.Context, address string) float64 {
	if s.chain == nil {
		return 0
	}
	wei, err := s.chain.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		logging.L(ctx).Warn("balance lookup failed, continuing without it",
			"address", address, "error", err)
		return 0
	}
	ether, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	return ether
}

func (s *Service) etherUSD(ctx context.Context) float64 {
	if s.pricer == nil {
		return 0
	}
	price, err := s.pricer.EtherUSD(ctx)
	if err != nil {
		logging.L(ctx).Warn("price lookup failed, continuing without it", "error", err)
		return 0
	}
	return price
}
