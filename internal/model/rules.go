package model

import "github.com/shopspring/decimal"

// SymbolRules holds per-pair order validity constraints from exchange metadata.
// Values stay in decimal form: the filter strings carry the exact step/tick
// representation the precision formatting is derived from.
type SymbolRules struct {
	Symbol      string
	MinQty      decimal.Decimal
	StepSize    decimal.Decimal
	MinNotional decimal.Decimal
	MaxNotional decimal.Decimal
	TickSize    decimal.Decimal
}
