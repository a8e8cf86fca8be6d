package market

import "strings"

// SymbolInfo describes one instrument in the catalog.
type SymbolInfo struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Venue    string  `json:"venue"`
	Currency string  `json:"currency"`
	Base     float64 `json:"-"`
}

const (
	VenueEquities = "equities"
	VenueCrypto   = "crypto"
)

// basePrices anchors the walk for recognized symbols. Unknown symbols get a
// random base, see Simulator.Ensure.
var catalog = []SymbolInfo{
	{Symbol: "AAPL", Name: "Apple Inc.", Base: 150.0},
	{Symbol: "GOOG", Name: "Alphabet Inc.", Base: 2800.0},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Base: 310.0},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Base: 3400.0},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Base: 700.0},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Base: 220.0},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Base: 330.0},
	{Symbol: "NFLX", Name: "Netflix, Inc.", Base: 510.0},
	{Symbol: "BTC-USD", Name: "Bitcoin USD", Base: 43000.0},
	{Symbol: "ETH-USD", Name: "Ethereum USD", Base: 2300.0},
	{Symbol: "SOL-USD", Name: "Solana USD", Base: 98.0},
	{Symbol: "DOGE-USD", Name: "Dogecoin USD", Base: 0.08},
}

var bySymbol = func() map[string]SymbolInfo {
	m := make(map[string]SymbolInfo, len(catalog))
	for _, info := range catalog {
		m[info.Symbol] = info
	}
	return m
}()

// cryptoQuoteLegs are the quote currencies that make a dashed symbol a
// crypto pair. Dashed equity classes like BRK-B stay equities.
var cryptoQuoteLegs = map[string]bool{
	"USD":  true,
	"USDT": true,
	"USDC": true,
	"EUR":  true,
	"GBP":  true,
	"BTC":  true,
	"ETH":  true,
}

// Classify derives venue and currency from the symbol's shape: a BASE-QUOTE
// pair with a recognizable quote leg like BTC-USD trades on the crypto venue
// in its quote currency, everything else is treated as a USD equity.
func Classify(symbol string) (venue, currency string) {
	if i := strings.LastIndex(symbol, "-"); i > 0 && i < len(symbol)-1 {
		if quote := symbol[i+1:]; cryptoQuoteLegs[quote] {
			return VenueCrypto, quote
		}
	}
	return VenueEquities, "USD"
}

// BasePrice returns the catalog base price for symbol, if recognized.
func BasePrice(symbol string) (float64, bool) {
	info, ok := bySymbol[symbol]
	return info.Base, ok
}

// Search returns catalog entries whose symbol or name contains q,
// case-insensitively. An empty query returns the full catalog.
func Search(q string) []SymbolInfo {
	q = strings.ToUpper(strings.TrimSpace(q))
	results := make([]SymbolInfo, 0, len(catalog))
	for _, info := range catalog {
		if q != "" && !strings.Contains(info.Symbol, q) &&
			!strings.Contains(strings.ToUpper(info.Name), q) {
			continue
		}
		info.Venue, info.Currency = Classify(info.Symbol)
		results = append(results, info)
	}
	return results
}
