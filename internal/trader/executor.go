package trader

import (
	"context"
	"log"
	"strconv"

	"CoinBalancer/internal/model"
	"CoinBalancer/internal/notifier"
	"CoinBalancer/internal/sizing"
	"CoinBalancer/internal/store"
	"CoinBalancer/internal/strategy"
)

// Messenger is the outbound notification surface the trader needs.
type Messenger interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// OrderPlacer submits sized orders to the exchange.
type OrderPlacer interface {
	PlaceOrder(order *model.Order) (*model.OrderResult, error)
}

// AuditStore records sizing and submission outcomes.
type AuditStore interface {
	RecordOrder(evt *store.OrderEvent) error
}

// Executor sizes one recommendation at a time and submits the resulting
// order. A recommendation leaves here in a terminal state: executed or
// rejected (by sizing or by the exchange). Nothing is retried within the
// cycle; the position is re-evaluated fresh next cycle.
type Executor struct {
	Orders   OrderPlacer
	Tracker  *strategy.Tracker
	Audit    AuditStore
	Notifier Messenger
	PairFor  func(symbol string) string
}

// Execute runs one recommendation through sizing and submission.
func (e *Executor) Execute(ctx context.Context, rec *model.Recommendation, rules *sizing.RuleBook) {
	if rec.Action == model.ActionHold {
		return
	}

	pair := e.PairFor(rec.Symbol)

	symbolRules, err := rules.Lookup(pair)
	if err != nil {
		rec.Status = model.StatusRejectedBySizing
		rec.Reason = err.Error()
		log.Printf("[WARN] %s: %v, recommendation rejected", rec.Symbol, err)
		e.recordOutcome(rec, nil, err.Error())
		return
	}

	order, err := sizing.Size(rec, pair, symbolRules)
	if err != nil {
		rec.Status = model.StatusRejectedBySizing
		rec.Reason = err.Error()
		log.Printf("[WARN] %s: sizing rejected: %v", rec.Symbol, err)
		e.recordOutcome(rec, nil, err.Error())
		return
	}
	rec.Status = model.StatusValidated

	log.Printf("[INFO] submitting %s order: %s %s @ %s", order.Side, order.Pair, order.Quantity, order.Price)
	result, err := e.Orders.PlaceOrder(order)
	if err != nil {
		rec.Status = model.StatusRejectedByExchange
		rec.Reason = err.Error()
		log.Printf("[ERROR] %s: exchange rejected order: %v", rec.Symbol, err)
		e.recordOutcome(rec, order, err.Error())
		e.trySend(ctx, notifier.FormatOrderNotice(order, rec.Status, err.Error()))
		return
	}

	rec.Status = model.StatusSubmitted
	if result.Status == "FILLED" || result.Status == "TEST" {
		rec.Status = model.StatusExecuted
	}
	log.Printf("[INFO] order acknowledged: %s status=%s id=%d", order.Pair, result.Status, result.OrderID)

	if order.Side == model.SideBuy {
		e.recordBuyFill(order)
	}

	e.recordOutcome(rec, order, result.Status)
	e.trySend(ctx, notifier.FormatOrderNotice(order, rec.Status, ""))
}

// recordBuyFill folds the buy into the asset's average cost. The order may
// still be resting on the book; tracking cost at submission mirrors how the
// targets ledger treats an accepted buy.
func (e *Executor) recordBuyFill(order *model.Order) {
	quantity, err := strconv.ParseFloat(order.Quantity, 64)
	if err != nil {
		log.Printf("[ERROR] parse order quantity %q: %v", order.Quantity, err)
		return
	}
	price, err := strconv.ParseFloat(order.Price, 64)
	if err != nil {
		log.Printf("[ERROR] parse order price %q: %v", order.Price, err)
		return
	}
	newAvg, err := e.Tracker.RecordFill(order.Symbol, quantity, price)
	if err != nil {
		log.Printf("[ERROR] update average cost for %s: %v", order.Symbol, err)
		return
	}
	log.Printf("[INFO] %s average cost updated to %.8f", order.Symbol, newAvg)
}

func (e *Executor) recordOutcome(rec *model.Recommendation, order *model.Order, note string) {
	evt := &store.OrderEvent{
		Symbol: rec.Symbol,
		Status: rec.Status,
		Note:   note,
	}
	if order != nil {
		evt.Side = order.Side
		evt.Quantity = order.Quantity
		evt.Price = order.Price
		evt.ClientOrderID = order.ClientOrderID
	}
	if err := e.Audit.RecordOrder(evt); err != nil {
		log.Printf("[ERROR] record order outcome: %v", err)
	}
}

func (e *Executor) trySend(ctx context.Context, text string) {
	if err := e.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
