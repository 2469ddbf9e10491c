package exchange

import "CoinBalancer/internal/model"

// BalanceSource provides the exchange account's spot balances.
type BalanceSource interface {
	FetchBalances() ([]model.Balance, error)
}

// PriceSource provides last prices for trading pairs against the quote asset.
type PriceSource interface {
	FetchPrice(pair string) (float64, error)
	FetchAllPrices() (map[string]float64, error)
}

// RuleSource provides per-pair order validity constraints.
type RuleSource interface {
	FetchRules() (map[string]model.SymbolRules, error)
}

// OrderPlacer submits limit orders to the exchange.
type OrderPlacer interface {
	PlaceOrder(order *model.Order) (*model.OrderResult, error)
}
