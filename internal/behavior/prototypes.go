package behavior

import "math"

// dimension compares one feature against a prototype target. Distance is
// |value - target| / scale clamped to [0, 1]; scale is the feature delta
// at which the dimension contributes full distance.
type dimension struct {
	value  func(f features) float64
	target float64
	scale  float64
	weight float64
}

type prototype struct {
	cluster     ClusterType
	label       string
	description string
	dims        []dimension
}

// similarity is 1 minus the weighted mean normalized distance, rounded to
// three decimals so serialized output is stable.
func (p prototype) similarity(f features) float64 {
	var dist, mass float64
	for _, d := range p.dims {
		delta := math.Abs(d.value(f)-d.target) / d.scale
		if delta > 1 {
			delta = 1
		}
		dist += d.weight * delta
		mass += d.weight
	}
	return math.Round((1-dist/mass)*1000) / 1000
}

var (
	balanceDim      = func(f features) float64 { return f.balanceLog }
	txDim           = func(f features) float64 { return f.txLog }
	ageDim          = func(f features) float64 { return f.ageLog }
	lastActivityDim = func(f features) float64 { return f.lastActivityLog }
	counterpartyDim = func(f features) float64 { return f.counterpartyLog }
	contractDim     = func(f features) float64 { return f.contractRatio }
	diversityDim    = func(f features) float64 { return f.diversity }
)

// prototypes is the closed cluster catalog. Order matters: earlier entries
// win similarity ties.
var prototypes = []prototype{
	{
		cluster:     ClusterWhale,
		label:       "Whale",
		description: "Large long-term holder moving significant value with a stable counterparty set.",
		dims: []dimension{
			{balanceDim, 6, 2, 0.5}, // ~$1M holdings
			{txDim, 3, 2, 0.2},      // ~1k transactions
			{ageDim, 3, 1.5, 0.2},   // ~3 years old
			{counterpartyDim, 2, 2, 0.1},
		},
	},
	{
		cluster:     ClusterDeFiPower,
		label:       "DeFi Power User",
		description: "Heavy smart contract usage across multiple protocol categories.",
		dims: []dimension{
			{contractDim, 0.85, 0.5, 0.35},
			{txDim, 3, 1.5, 0.25},
			{diversityDim, 1, 1, 0.25},
			{balanceDim, 4, 3, 0.15},
		},
	},
	{
		cluster:     ClusterTrader,
		label:       "Active Trader",
		description: "High-frequency activity with many counterparties and recent transactions.",
		dims: []dimension{
			{txDim, 3.5, 1.5, 0.35},
			{lastActivityDim, 0, 1.5, 0.25}, // active today
			{counterpartyDim, 2, 1.5, 0.2},
			{contractDim, 0.5, 0.5, 0.2},
		},
	},
	{
		cluster:     ClusterNewUser,
		label:       "New User",
		description: "Recently created wallet with light activity and modest holdings.",
		dims: []dimension{
			{ageDim, 1, 1, 0.45}, // ~9 days old
			{txDim, 1, 1.5, 0.3},
			{balanceDim, 2, 3, 0.25},
		},
	},
	{
		cluster:     ClusterDormant,
		label:       "Dormant",
		description: "Established wallet with no meaningful recent activity.",
		dims: []dimension{
			{lastActivityDim, 2.5, 1, 0.5}, // ~10 months inactive
			{ageDim, 3, 1.5, 0.3},
			{txDim, 1.5, 2, 0.2},
		},
	},
}
