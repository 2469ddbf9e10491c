package strategy

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"CoinBalancer/internal/model"
)

// memoryTargetStore keeps target records in a map, mimicking the SQLite
// store's lookup and fill-update semantics.
type memoryTargetStore struct {
	targets map[string]*model.TargetAllocation
}

func newMemoryTargetStore(targets ...*model.TargetAllocation) *memoryTargetStore {
	m := &memoryTargetStore{targets: make(map[string]*model.TargetAllocation)}
	for _, t := range targets {
		m.targets[strings.ToLower(t.Symbol)] = t
	}
	return m
}

func (m *memoryTargetStore) GetTarget(symbol string) (*model.TargetAllocation, error) {
	t, ok := m.targets[strings.ToLower(symbol)]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	copied := *t
	return &copied, nil
}

func (m *memoryTargetStore) UpdateFill(symbol string, quantity, averageCost float64) error {
	t, ok := m.targets[strings.ToLower(symbol)]
	if !ok {
		return fmt.Errorf("record not found")
	}
	t.Quantity = quantity
	t.AverageCost = averageCost
	return nil
}

func TestRecordFill_WeightedAverage(t *testing.T) {
	store := newMemoryTargetStore(&model.TargetAllocation{
		Symbol: "eth", Quantity: 2, AverageCost: 2000,
	})
	tracker := &Tracker{Store: store}

	newAvg, err := tracker.RecordFill("ETH", 1, 3500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (2×2000 + 1×3500) / 3 = 2500
	if math.Abs(newAvg-2500) > 1e-8 {
		t.Errorf("average cost: got %v, want 2500", newAvg)
	}
	saved, _ := store.GetTarget("eth")
	if math.Abs(saved.Quantity-3) > 1e-8 {
		t.Errorf("quantity: got %v, want 3", saved.Quantity)
	}
	if math.Abs(saved.AverageCost-2500) > 1e-8 {
		t.Errorf("persisted average cost: got %v, want 2500", saved.AverageCost)
	}
}

func TestRecordFill_FirstPurchase(t *testing.T) {
	// Zero prior quantity must not divide by zero; the average becomes the
	// fill price.
	store := newMemoryTargetStore(&model.TargetAllocation{Symbol: "sol"})
	tracker := &Tracker{Store: store}

	newAvg, err := tracker.RecordFill("SOL", 10, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newAvg != 150 {
		t.Errorf("average cost: got %v, want 150", newAvg)
	}
}

func TestRecordFill_ConvergesToFillPrice(t *testing.T) {
	// Repeated fills at a fixed price pull the average toward that price.
	store := newMemoryTargetStore(&model.TargetAllocation{
		Symbol: "btc", Quantity: 1, AverageCost: 90000,
	})
	tracker := &Tracker{Store: store}

	const fillPrice = 60000.0
	for i := 0; i < 200; i++ {
		if _, err := tracker.RecordFill("btc", 1, fillPrice); err != nil {
			t.Fatalf("fill %d: %v", i, err)
		}
	}
	saved, _ := store.GetTarget("btc")
	if math.Abs(saved.AverageCost-fillPrice) > 200 {
		t.Errorf("average cost %v failed to converge toward %v", saved.AverageCost, fillPrice)
	}
	prev := saved.AverageCost
	if _, err := tracker.RecordFill("btc", 1, fillPrice); err != nil {
		t.Fatal(err)
	}
	saved, _ = store.GetTarget("btc")
	if math.Abs(saved.AverageCost-fillPrice) > math.Abs(prev-fillPrice) {
		t.Error("average cost moved away from the fill price")
	}
}

func TestRecordFill_Preconditions(t *testing.T) {
	store := newMemoryTargetStore(&model.TargetAllocation{Symbol: "eth"})
	tracker := &Tracker{Store: store}

	tests := []struct {
		name     string
		quantity float64
		price    float64
	}{
		{"zero quantity", 0, 100},
		{"negative quantity", -1, 100},
		{"zero price", 1, 0},
		{"negative price", 1, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tracker.RecordFill("eth", tt.quantity, tt.price); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRecordFill_UnknownSymbol(t *testing.T) {
	tracker := &Tracker{Store: newMemoryTargetStore()}
	if _, err := tracker.RecordFill("doge", 1, 0.1); err == nil {
		t.Error("expected error for symbol with no target record")
	}
}
