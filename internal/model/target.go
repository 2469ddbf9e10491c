package model

import "time"

// TargetAllocation is the persisted record describing how much of the
// portfolio an asset should represent. It is re-synced from the spreadsheet
// and mutated by buy fills (quantity + average cost); the bot never deletes it.
type TargetAllocation struct {
	Symbol           string
	TargetPercentage float64
	AverageCost      float64
	Points           float64
	TargetQuantity   float64
	Quantity         float64
	UpdatedAt        time.Time
}

// WalletBalance is one row of the manually tracked secondary wallet ledger.
type WalletBalance struct {
	Symbol   string
	Quantity float64
}
