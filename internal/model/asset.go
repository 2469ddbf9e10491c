package model

// HoldingSource identifies which account reported a balance.
type HoldingSource string

const (
	SourceExchange HoldingSource = "EXCHANGE"
	SourceWallet   HoldingSource = "WALLET"
	SourceCombined HoldingSource = "COMBINED"
)

// Holding is a quantity of one asset owned, keyed by its lower-case symbol.
type Holding struct {
	Symbol   string
	Quantity float64
	Source   HoldingSource
}

// ValuedHolding is a holding priced against the quote currency.
// Percentage is only meaningful when the portfolio total is positive.
type ValuedHolding struct {
	Symbol     string
	Quantity   float64
	Price      float64
	Value      float64
	Percentage float64
}

// Balance is a raw account balance as reported by the exchange.
type Balance struct {
	Asset  string
	Free   float64
	Locked float64
}
