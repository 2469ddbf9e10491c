package model

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Order is a fully sized, exchange-valid limit order. Quantity and Price are
// pre-formatted strings quantized to the pair's step and tick grids.
type Order struct {
	Symbol        string
	Pair          string
	Side          OrderSide
	Type          string
	TimeInForce   string
	Quantity      string
	Price         string
	ClientOrderID string
}

// OrderResult is the exchange's acknowledgment of a submitted order.
type OrderResult struct {
	OrderID       int64
	ClientOrderID string
	Status        string
	ExecutedQty   string
}
