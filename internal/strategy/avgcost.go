package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"CoinBalancer/internal/model"
)

// TargetStore is the persistence surface the average-cost tracker needs.
type TargetStore interface {
	GetTarget(symbol string) (*model.TargetAllocation, error)
	UpdateFill(symbol string, quantity, averageCost float64) error
}

// Tracker maintains each asset's quantity-weighted average acquisition cost.
type Tracker struct {
	Store TargetStore
}

// RecordFill folds a buy fill into the asset's average cost and persists the
// new quantity and cost back to the target-allocation record. A fill for a
// symbol with no target record is an error: the bot never buys assets it has
// no allocation for.
func (t *Tracker) RecordFill(symbol string, fillQuantity, fillPrice float64) (float64, error) {
	if fillQuantity <= 0 {
		return 0, fmt.Errorf("record fill for %s: quantity %v must be positive", symbol, fillQuantity)
	}
	if fillPrice <= 0 {
		return 0, fmt.Errorf("record fill for %s: price %v must be positive", symbol, fillPrice)
	}

	target, err := t.Store.GetTarget(symbol)
	if err != nil {
		return 0, fmt.Errorf("record fill for %s: %w", symbol, err)
	}

	// fillQuantity > 0, so the denominator is positive even on a first
	// purchase with zero prior quantity.
	newQuantity := target.Quantity + fillQuantity
	newAverageCost := (target.Quantity*target.AverageCost + fillQuantity*fillPrice) / newQuantity

	// Round to 8 decimal places so repeated updates don't accumulate float
	// drift in the stored record.
	newQuantity, _ = decimal.NewFromFloat(newQuantity).Round(8).Float64()
	newAverageCost, _ = decimal.NewFromFloat(newAverageCost).Round(8).Float64()

	if err := t.Store.UpdateFill(symbol, newQuantity, newAverageCost); err != nil {
		return 0, fmt.Errorf("record fill for %s: %w", symbol, err)
	}
	return newAverageCost, nil
}
