package portfolio

import (
	"strings"

	"CoinBalancer/internal/model"
)

// Combine merges the exchange account's free balances with the manually
// tracked wallet ledger into one mapping keyed by lower-case symbol.
// Quantities for the same symbol are summed, never overwritten.
func Combine(exchangeBalances []model.Balance, walletBalances []model.WalletBalance) map[string]float64 {
	combined := make(map[string]float64, len(exchangeBalances)+len(walletBalances))
	for _, b := range exchangeBalances {
		symbol := strings.ToLower(b.Asset)
		combined[symbol] += b.Free
	}
	for _, w := range walletBalances {
		symbol := strings.ToLower(w.Symbol)
		combined[symbol] += w.Quantity
	}
	return combined
}
