package portfolio

import (
	"log"
	"sort"
	"strings"

	"CoinBalancer/internal/model"
)

// Valuer prices merged holdings against the quote asset.
type Valuer struct {
	QuoteAsset string
}

// NewValuer creates a Valuer for the given quote asset (e.g. "USDT").
func NewValuer(quoteAsset string) *Valuer {
	return &Valuer{QuoteAsset: strings.ToUpper(quoteAsset)}
}

// Pair returns the trading pair for a symbol against the quote asset.
func (v *Valuer) Pair(symbol string) string {
	return strings.ToUpper(symbol) + v.QuoteAsset
}

// Value prices each holding, computes the portfolio total, and assigns each
// holding's percentage share. Holdings with no available quote are logged and
// excluded: they contribute neither to the total nor to the output. The
// result is sorted by percentage, largest first.
func (v *Valuer) Value(holdings map[string]float64, prices map[string]float64) ([]model.ValuedHolding, float64) {
	// Deterministic iteration so equal percentages keep a stable order.
	symbols := make([]string, 0, len(holdings))
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var valued []model.ValuedHolding
	total := 0.0
	for _, symbol := range symbols {
		quantity := holdings[symbol]
		price, ok := prices[v.Pair(symbol)]
		if !ok {
			log.Printf("[WARN] no price for %s, excluding from valuation", v.Pair(symbol))
			continue
		}
		value := quantity * price
		total += value
		valued = append(valued, model.ValuedHolding{
			Symbol:   strings.ToUpper(symbol),
			Quantity: quantity,
			Price:    price,
			Value:    value,
		})
	}

	if total > 0 {
		for i := range valued {
			valued[i].Percentage = valued[i].Value / total * 100
		}
		sort.SliceStable(valued, func(i, j int) bool {
			return valued[i].Percentage > valued[j].Percentage
		})
	}

	return valued, total
}
