package reputation

import "testing"

func TestBlocklistLookup(t *testing.T) {
	if !IsBlocklisted("0x7f367cc41522ce07553e823bf3be79a889debe1b") {
		t.Error("known sanctioned address should be blocklisted")
	}
	// Case-insensitive
	if !IsBlocklisted("0x7F367CC41522CE07553E823BF3BE79A889DEBE1B") {
		t.Error("lookup should be case-insensitive")
	}
	if IsBlocklisted("0x73bceb1cd57c711fec4224d864b04132486b1be0") {
		t.Error("unknown address should not be blocklisted")
	}
}

func TestMixerLookup(t *testing.T) {
	if !IsMixer("0x12d66f87a04a9e220743712ce6d9bb1b5616b8fc") {
		t.Error("tornado cash pool should be a known mixer")
	}
	if IsMixer("0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be") {
		t.Error("exchange wallet is not a mixer")
	}
}

func TestKnownLegitimate(t *testing.T) {
	if !KnownLegitimate("0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be") {
		t.Error("binance hot wallet should be known legitimate")
	}
	if !KnownLegitimate("0x7a250d5630b4cf539739df2c5dacb4c659f2488d") {
		t.Error("uniswap router should be known legitimate")
	}
	if KnownLegitimate("0x12d66f87a04a9e220743712ce6d9bb1b5616b8fc") {
		t.Error("mixer must not be known legitimate")
	}
}

func TestProtocolCategory(t *testing.T) {
	tests := []struct {
		addr string
		want ProtocolKind
	}{
		{"0x7a250d5630b4cf539739df2c5dacb4c659f2488d", ProtocolDeFi},
		{"0x00000000006c3852cbef3e08e8df289169ede581", ProtocolNFT},
		{"0x3ee18b2214aff97000d974cf647e7c347e8fa585", ProtocolBridge},
		{"0x73bceb1cd57c711fec4224d864b04132486b1be0", ""},
	}
	for _, tt := range tests {
		if got := ProtocolCategory(tt.addr); got != tt.want {
			t.Errorf("ProtocolCategory(%s) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestLookupMultipleCategories(t *testing.T) {
	cats := Lookup("0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be")
	if len(cats) != 1 || cats[0] != CategoryExchange {
		t.Errorf("expected [exchange], got %v", cats)
	}

	if cats := Lookup("0x73bceb1cd57c711fec4224d864b04132486b1be0"); cats != nil {
		t.Errorf("unknown address should return no categories, got %v", cats)
	}
}
