package consts

// Asset describes one selectable crypto asset.
type Asset struct {
	Symbol string
	Name   string
}

const DefaultAsset = "BTC"

// Assets is the selectable catalog in display order.
var Assets = []Asset{
	{Symbol: "BTC", Name: "Bitcoin"},
	{Symbol: "ETH", Name: "Ethereum"},
	{Symbol: "ADA", Name: "Cardano"},
	{Symbol: "SOL", Name: "Solana"},
	{Symbol: "MATIC", Name: "Polygon"},
	{Symbol: "DOT", Name: "Polkadot"},
	{Symbol: "AVAX", Name: "Avalanche"},
	{Symbol: "LINK", Name: "Chainlink"},
	{Symbol: "UNI", Name: "Uniswap"},
	{Symbol: "LTC", Name: "Litecoin"},
}

// IsAsset reports whether symbol is in the catalog.
func IsAsset(symbol string) bool {
	for _, a := range Assets {
		if a.Symbol == symbol {
			return true
		}
	}
	return false
}

// AssetSymbols returns the catalog symbols in display order.
func AssetSymbols() []string {
	out := make([]string, len(Assets))
	for i, a := range Assets {
		out[i] = a.Symbol
	}
	return out
}

// Chart periods in days. Exactly one is active at a time.
const (
	Period7   = 7
	Period30  = 30
	Period90  = 90
	Period365 = 365

	DefaultPeriod = Period30
)

var Periods = []int{Period7, Period30, Period90, Period365}

// IsPeriod reports whether days is one of the chart periods.
func IsPeriod(days int) bool {
	for _, p := range Periods {
		if p == days {
			return true
		}
	}
	return false
}
