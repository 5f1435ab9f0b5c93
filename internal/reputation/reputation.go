// Package reputation holds the static address reputation lists consumed by
// the data provider and the transaction simulator.
//
// Lists are versioned data shipped with the binary, not runtime-mutable
// state: sanctioned/blocklisted addresses, known mixing services, and known
// exchanges/protocols. Lookups are pure and safe for concurrent use.
package reputation

import "strings"

// ListVersion identifies the shipped reputation dataset. Bump when the
// tables below change so cached assessments can be invalidated upstream.
const ListVersion = "2026-08"

// Category classifies a known address.
type Category string

const (
	CategoryBlocklisted Category = "blocklisted"
	CategoryMixer       Category = "mixer"
	CategoryExchange    Category = "exchange"
	CategoryProtocol    Category = "protocol"
)

// ProtocolKind buckets known protocols for diversity metrics.
type ProtocolKind string

const (
	ProtocolDeFi   ProtocolKind = "defi"
	ProtocolNFT    ProtocolKind = "nft"
	ProtocolBridge ProtocolKind = "bridge"
)

// blocklisted contains sanctioned or scam-flagged addresses.
// Sources: OFAC SDN additions plus widely reported exploit addresses.
var blocklisted = map[string]bool{
	"0x7f367cc41522ce07553e823bf3be79a889debe1b": true, // Lazarus Group (OFAC)
	"0x098b716b8aaf21512996dc57eb0615e2383e2f96": true, // Ronin bridge exploiter
	"0x3cffd56b47b7b41c56258d9c7731abadc360e073": true, // OFAC SDN
	"0x53b6936513e738f44fb50d2b9476730c0ab3bfc1": true, // OFAC SDN
	"0xa7e5d5a720f06526557c513402f2e6b5fa20b008": true, // exploit proceeds
	"0x901bb9583b24d97e995513c6778dc6888ab6870e": true, // OFAC SDN
}

// mixers contains known privacy/mixing service contracts.
var mixers = map[string]bool{
	"0x12d66f87a04a9e220743712ce6d9bb1b5616b8fc": true, // Tornado Cash 0.1 ETH
	"0x47ce0c6ed5b0ce3d3a51fdb1c52dc66a7c3c2936": true, // Tornado Cash 1 ETH
	"0x910cbd523d972eb0a6f4cae4618ad62622b39dbf": true, // Tornado Cash 10 ETH
	"0xa160cdab225685da1d56aa342ad8841c3b53f291": true, // Tornado Cash 100 ETH
	"0x722122df12d4e14e13ac3b6895a86e84145b6967": true, // Tornado Cash proxy
}

// exchanges contains known centralized exchange hot wallets.
var exchanges = map[string]bool{
	"0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be": true, // Binance
	"0x28c6c06298d514db089934071355e5743bf21d60": true, // Binance 14
	"0x503828976d22510aad0201ac7ec88293211d23da": true, // Coinbase
	"0x71660c4005ba85c37ccec55d0c4493e66fe775d3": true, // Coinbase 3
	"0x2b5634c42055806a59e9107ed44d43c426e58258": true, // Kraken
	"0xe93381fb4c4f14bda253907b18fad305d799241a": true, // Huobi
}

// protocols maps known protocol contracts to their category.
var protocols = map[string]ProtocolKind{
	"0x7a250d5630b4cf539739df2c5dacb4c659f2488d": ProtocolDeFi,   // Uniswap V2 router
	"0xe592427a0aece92de3edee1f18e0157c05861564": ProtocolDeFi,   // Uniswap V3 router
	"0x7d2768de32b0b80b7a3454c06bdac94a69ddc7a9": ProtocolDeFi,   // Aave V2 pool
	"0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2": ProtocolDeFi,   // Aave V3 pool
	"0x3593564c069f4a4b8b9b0b09dd3a8b4e6b4b7d7f": ProtocolDeFi,   // Universal router
	"0x00000000006c3852cbef3e08e8df289169ede581": ProtocolNFT,    // Seaport
	"0x7f268357a8c2552623316e2562d90e642bb538e5": ProtocolNFT,    // Wyvern
	"0x3ee18b2214aff97000d974cf647e7c347e8fa585": ProtocolBridge, // Wormhole
	"0x40ec5b33f54e0e8a33a975908c5ba1c14e5bbbdf": ProtocolBridge, // Polygon bridge
	"0x99c9fc46f92e8a1c0dec1b1747d010903e884be1": ProtocolBridge, // Optimism bridge
}

// IsBlocklisted reports whether an address appears on the sanctions/scam list.
func IsBlocklisted(address string) bool {
	return blocklisted[normalize(address)]
}

// IsMixer reports whether an address is a known mixing service.
func IsMixer(address string) bool {
	return mixers[normalize(address)]
}

// IsExchange reports whether an address is a known exchange hot wallet.
func IsExchange(address string) bool {
	return exchanges[normalize(address)]
}

// ProtocolCategory returns the protocol bucket for a known protocol
// contract, or "" when the address is not a known protocol.
func ProtocolCategory(address string) ProtocolKind {
	return protocols[normalize(address)]
}

// Lookup returns all categories that apply to an address. Most addresses
// return none; a mixer is also reported as a protocol-free match.
func Lookup(address string) []Category {
	addr := normalize(address)
	var cats []Category
	if blocklisted[addr] {
		cats = append(cats, CategoryBlocklisted)
	}
	if mixers[addr] {
		cats = append(cats, CategoryMixer)
	}
	if exchanges[addr] {
		cats = append(cats, CategoryExchange)
	}
	if _, ok := protocols[addr]; ok {
		cats = append(cats, CategoryProtocol)
	}
	return cats
}

// KnownLegitimate reports whether the address is an exchange or protocol
// counterparty that raises, rather than lowers, trust.
func KnownLegitimate(address string) bool {
	addr := normalize(address)
	if exchanges[addr] {
		return true
	}
	_, ok := protocols[addr]
	return ok
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
