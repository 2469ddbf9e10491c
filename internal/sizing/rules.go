package sizing

import (
	"errors"
	"fmt"

	"CoinBalancer/internal/model"
)

// ErrNoRules is returned when a pair has no trading constraints on the venue.
var ErrNoRules = errors.New("no trading rules for pair")

// RuleBook resolves per-pair trading constraints from downloaded exchange
// metadata. Rules change rarely, so one RuleBook may be reused across cycles.
type RuleBook struct {
	rules map[string]model.SymbolRules
}

// NewRuleBook wraps a pair→rules mapping as fetched from the exchange.
func NewRuleBook(rules map[string]model.SymbolRules) *RuleBook {
	return &RuleBook{rules: rules}
}

// Lookup returns the constraints for a trading pair.
func (rb *RuleBook) Lookup(pair string) (model.SymbolRules, error) {
	r, ok := rb.rules[pair]
	if !ok {
		return model.SymbolRules{}, fmt.Errorf("%w: %s", ErrNoRules, pair)
	}
	if r.StepSize.IsZero() {
		return model.SymbolRules{}, fmt.Errorf("%w: %s has no lot-size filter", ErrNoRules, pair)
	}
	return r, nil
}

// Len reports how many pairs have rules.
func (rb *RuleBook) Len() int {
	return len(rb.rules)
}
