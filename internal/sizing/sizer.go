package sizing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"CoinBalancer/internal/model"
)

// ErrConstraintUnsatisfiable is returned when no quantity can satisfy the
// pair's notional bounds, typically when max_notional caps below min_notional.
var ErrConstraintUnsatisfiable = errors.New("order constraints unsatisfiable")

// maxNotionalSteps bounds the min-notional raise loop. Each added step
// strictly increases the notional, so a valid configuration converges long
// before this.
const maxNotionalSteps = 10000

// Size turns a recommendation into an exchange-valid limit order: quantity
// floored to the step grid, raised to the minimum quantity and minimum
// notional, capped to the maximum notional, price quantized to the tick grid.
// Returns ErrConstraintUnsatisfiable when no compliant quantity exists.
func Size(rec *model.Recommendation, pair string, rules model.SymbolRules) (*model.Order, error) {
	quantity := decimal.NewFromFloat(rec.Quantity)
	price := decimal.NewFromFloat(rec.Price)
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("size %s: price must be positive", pair)
	}

	// Floor to the nearest non-negative multiple of the step. Never round
	// up: the sized order must not overshoot the intended trade.
	quantity = floorToIncrement(quantity, rules.StepSize)
	if quantity.Sign() < 0 {
		quantity = decimal.Zero
	}

	if quantity.LessThan(rules.MinQty) {
		quantity = ceilToIncrement(rules.MinQty, rules.StepSize)
	}

	// Raise until the notional clears the floor.
	steps := 0
	for quantity.Mul(price).LessThan(rules.MinNotional) {
		quantity = quantity.Add(rules.StepSize)
		steps++
		if steps > maxNotionalSteps {
			return nil, fmt.Errorf("size %s: %w: min notional %s unreachable", pair, ErrConstraintUnsatisfiable, rules.MinNotional)
		}
	}

	// Cap to the notional ceiling, then re-floor onto the grid.
	if rules.MaxNotional.Sign() > 0 && quantity.Mul(price).GreaterThan(rules.MaxNotional) {
		quantity = floorToIncrement(rules.MaxNotional.Div(price), rules.StepSize)
	}

	if !rules.TickSize.IsZero() {
		price = floorToIncrement(price, rules.TickSize)
	}

	notional := quantity.Mul(price)
	if quantity.Sign() <= 0 {
		return nil, fmt.Errorf("size %s: %w: quantity vanished after quantization", pair, ErrConstraintUnsatisfiable)
	}
	if notional.LessThan(rules.MinNotional) {
		return nil, fmt.Errorf("size %s: %w: notional %s below minimum %s after capping",
			pair, ErrConstraintUnsatisfiable, notional, rules.MinNotional)
	}

	side := model.SideBuy
	if rec.Action == model.ActionSell || rec.Action == model.ActionLiquidate {
		side = model.SideSell
	}

	return &model.Order{
		Symbol:        rec.Symbol,
		Pair:          pair,
		Side:          side,
		Type:          "LIMIT",
		TimeInForce:   "GTC",
		Quantity:      FormatToIncrement(quantity, rules.StepSize),
		Price:         FormatToIncrement(price, rules.TickSize),
		ClientOrderID: uuid.NewString(),
	}, nil
}

// floorToIncrement returns the greatest multiple of inc not exceeding v.
func floorToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	if inc.Sign() <= 0 {
		return v
	}
	return v.Div(inc).Floor().Mul(inc)
}

// ceilToIncrement returns the smallest multiple of inc not less than v.
func ceilToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	if inc.Sign() <= 0 {
		return v
	}
	return v.Div(inc).Ceil().Mul(inc)
}

// FormatToIncrement renders v with exactly the fractional digits the
// increment's decimal exponent calls for, then trims trailing zeros and a
// trailing point. The precision comes from the increment's textual decimal
// form, never from a float logarithm, which is unstable at powers of ten.
// A zero increment means the venue imposes no grid; v passes through at its
// own precision.
func FormatToIncrement(v, inc decimal.Decimal) string {
	if inc.IsZero() {
		return v.String()
	}
	precision := int32(0)
	if exp := inc.Exponent(); exp < 0 {
		precision = -exp
	}
	s := v.StringFixed(precision)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
