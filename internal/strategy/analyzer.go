package strategy

import (
	"log"
	"math"
	"strings"

	"CoinBalancer/internal/model"
)

// Analyzer compares current percentage shares against target allocations and
// classifies each holding into a rebalancing action.
type Analyzer struct {
	// MaxDivergence is the percentage-point band around the target inside
	// which no trade is proposed.
	MaxDivergence float64
	// MinOrderValue is the smallest economically meaningful trade, in quote
	// currency. Divergences worth less than this are held.
	MinOrderValue float64
	// AllowSellBelowCost disables the guard that refuses to sell a position
	// below its recorded average cost.
	AllowSellBelowCost bool
}

// Analyze produces one recommendation per valued holding. A holding with no
// target record is liquidated in full: an asset with no target is never
// intentionally held.
func (a *Analyzer) Analyze(valued []model.ValuedHolding, portfolioValue float64, targets []*model.TargetAllocation) []*model.Recommendation {
	targetsBySymbol := make(map[string]*model.TargetAllocation, len(targets))
	for _, t := range targets {
		targetsBySymbol[strings.ToLower(t.Symbol)] = t
	}

	recommendations := make([]*model.Recommendation, 0, len(valued))
	for _, vh := range valued {
		target, ok := targetsBySymbol[strings.ToLower(vh.Symbol)]
		if !ok {
			log.Printf("[WARN] %s: no target allocation, recommending full liquidation", vh.Symbol)
			recommendations = append(recommendations, &model.Recommendation{
				Symbol:            vh.Symbol,
				Action:            model.ActionLiquidate,
				Quantity:          vh.Quantity,
				Price:             vh.Price,
				CurrentPercentage: vh.Percentage,
				Status:            model.StatusProposed,
				Reason:            "asset has no target allocation",
			})
			continue
		}
		recommendations = append(recommendations, a.analyzeHolding(vh, target, portfolioValue))
	}
	return recommendations
}

func (a *Analyzer) analyzeHolding(vh model.ValuedHolding, target *model.TargetAllocation, portfolioValue float64) *model.Recommendation {
	divergence := vh.Percentage - target.TargetPercentage

	rec := &model.Recommendation{
		Symbol:            vh.Symbol,
		Action:            model.ActionHold,
		Price:             vh.Price,
		CurrentPercentage: vh.Percentage,
		TargetPercentage:  target.TargetPercentage,
		Divergence:        divergence,
		Status:            model.StatusProposed,
	}

	targetQuantity := target.TargetPercentage / 100 * portfolioValue / vh.Price
	divergenceValue := math.Abs(vh.Quantity-targetQuantity) * vh.Price

	switch {
	case divergenceValue < a.MinOrderValue:
		rec.Reason = "divergence below minimum order value"

	case divergence > a.MaxDivergence && (vh.Price > target.AverageCost || a.AllowSellBelowCost):
		rec.Action = model.ActionSell
		rec.Quantity = vh.Quantity - targetQuantity

	case divergence > a.MaxDivergence:
		// Overweight, but selling here would realize a loss against the
		// recorded cost basis.
		rec.Reason = "price at or below average cost, sell suppressed"
		log.Printf("[WARN] %s: price %.8f at or below average cost %.8f, sell suppressed",
			vh.Symbol, vh.Price, target.AverageCost)

	case divergence < -a.MaxDivergence:
		rec.Action = model.ActionBuy
		rec.Quantity = targetQuantity - vh.Quantity

	default:
		rec.Reason = "within divergence band"
	}

	return rec
}
