package model

// Action is the rebalancing decision for one asset.
type Action string

const (
	ActionBuy       Action = "BUY"
	ActionSell      Action = "SELL"
	ActionHold      Action = "HOLD"
	ActionLiquidate Action = "LIQUIDATE"
)

// RecommendationStatus tracks a recommendation through sizing and submission.
type RecommendationStatus string

const (
	StatusProposed           RecommendationStatus = "PROPOSED"
	StatusValidated          RecommendationStatus = "VALIDATED"
	StatusSubmitted          RecommendationStatus = "SUBMITTED"
	StatusExecuted           RecommendationStatus = "EXECUTED"
	StatusRejectedBySizing   RecommendationStatus = "REJECTED_SIZING"
	StatusRejectedByExchange RecommendationStatus = "REJECTED_EXCHANGE"
)

// Recommendation is the Divergence Analyzer's output for one asset.
// Quantity is the raw (unquantized) trade size; the sizing engine
// quantizes it before any order is produced.
type Recommendation struct {
	Symbol            string
	Action            Action
	Quantity          float64
	Price             float64
	CurrentPercentage float64
	TargetPercentage  float64
	Divergence        float64
	Status            RecommendationStatus
	Reason            string
}
