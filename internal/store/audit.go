package store

import (
	"fmt"
	"time"

	"CoinBalancer/internal/model"
)

// CycleSnapshot summarizes one completed rebalancing cycle.
type CycleSnapshot struct {
	PortfolioValue float64
	AssetCount     int
	BuyCount       int
	SellCount      int
	HoldCount      int
	LiquidateCount int
	Note           string
}

// OrderEvent records the outcome of one order attempt.
type OrderEvent struct {
	Symbol        string
	Side          model.OrderSide
	Quantity      string
	Price         string
	Status        model.RecommendationStatus
	ClientOrderID string
	Note          string
}

// RecordCycle appends a cycle snapshot to the audit trail.
func (s *Store) RecordCycle(snap *CycleSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO cycle_history
		(timestamp, portfolio_value, asset_count, buy_count, sell_count, hold_count, liquidate_count, note)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.PortfolioValue, snap.AssetCount,
		snap.BuyCount, snap.SellCount, snap.HoldCount, snap.LiquidateCount, snap.Note,
	)
	if err != nil {
		return fmt.Errorf("record cycle: %w", err)
	}
	return nil
}

// RecordOrder appends an order outcome to the audit trail.
func (s *Store) RecordOrder(evt *OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO order_history
		(timestamp, symbol, side, quantity, price, status, client_order_id, note)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, string(evt.Side), evt.Quantity,
		evt.Price, string(evt.Status), evt.ClientOrderID, evt.Note,
	)
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	return nil
}
