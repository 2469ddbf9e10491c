package trader

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"CoinBalancer/internal/exchange"
	"CoinBalancer/internal/model"
	"CoinBalancer/internal/sizing"
	"CoinBalancer/internal/store"
	"CoinBalancer/internal/strategy"
)

type fakeMessenger struct {
	sent []string
}

func (f *fakeMessenger) Send(text string) error { f.sent = append(f.sent, text); return nil }
func (f *fakeMessenger) SendWithRetry(_ context.Context, text string, _ int) error {
	return f.Send(text)
}

func ethRules() *sizing.RuleBook {
	return sizing.NewRuleBook(map[string]model.SymbolRules{
		"ETHUSDT": {
			Symbol:      "ETHUSDT",
			MinQty:      decimal.RequireFromString("0.001"),
			StepSize:    decimal.RequireFromString("0.001"),
			MinNotional: decimal.RequireFromString("10"),
			TickSize:    decimal.RequireFromString("0.01"),
		},
	})
}

func newTestExecutor(t *testing.T, mock *exchange.MockExchange) (*Executor, *store.Store, *fakeMessenger) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	messenger := &fakeMessenger{}
	exec := &Executor{
		Orders:   mock,
		Tracker:  &strategy.Tracker{Store: st},
		Audit:    st,
		Notifier: messenger,
		PairFor:  func(symbol string) string { return symbol + "USDT" },
	}
	return exec, st, messenger
}

func TestExecute_BuyUpdatesAverageCost(t *testing.T) {
	mock := &exchange.MockExchange{}
	exec, st, messenger := newTestExecutor(t, mock)

	if err := st.UpsertTarget(&model.TargetAllocation{
		Symbol: "eth", TargetPercentage: 30, AverageCost: 2000, Quantity: 2,
	}); err != nil {
		t.Fatal(err)
	}

	rec := &model.Recommendation{
		Symbol: "ETH", Action: model.ActionBuy, Quantity: 1.0004, Price: 3000,
		Status: model.StatusProposed,
	}
	exec.Execute(context.Background(), rec, ethRules())

	if rec.Status != model.StatusSubmitted {
		t.Fatalf("status: got %s, want %s (%s)", rec.Status, model.StatusSubmitted, rec.Reason)
	}
	if len(mock.Placed) != 1 {
		t.Fatalf("expected 1 placed order, got %d", len(mock.Placed))
	}
	order := mock.Placed[0]
	if order.Quantity != "1" {
		t.Errorf("quantity: got %q, want \"1\"", order.Quantity)
	}

	// (2×2000 + 1×3000) / 3 = 2333.33333333
	target, err := st.GetTarget("eth")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(target.AverageCost-2333.33333333) > 1e-6 {
		t.Errorf("average cost: got %v, want ≈2333.33333333", target.AverageCost)
	}
	if math.Abs(target.Quantity-3) > 1e-9 {
		t.Errorf("quantity: got %v, want 3", target.Quantity)
	}

	if len(messenger.sent) == 0 {
		t.Error("expected an order notification")
	}
}

func TestExecute_HoldNeverEntersSizing(t *testing.T) {
	mock := &exchange.MockExchange{}
	exec, _, messenger := newTestExecutor(t, mock)

	rec := &model.Recommendation{Symbol: "ETH", Action: model.ActionHold, Status: model.StatusProposed}
	exec.Execute(context.Background(), rec, ethRules())

	if rec.Status != model.StatusProposed {
		t.Errorf("hold should stay proposed, got %s", rec.Status)
	}
	if len(mock.Placed) != 0 || len(messenger.sent) != 0 {
		t.Error("hold must not place orders or notify")
	}
}

func TestExecute_RejectedBySizingWhenNoRules(t *testing.T) {
	mock := &exchange.MockExchange{}
	exec, _, _ := newTestExecutor(t, mock)

	rec := &model.Recommendation{
		Symbol: "XYZ", Action: model.ActionLiquidate, Quantity: 5, Price: 100,
		Status: model.StatusProposed,
	}
	exec.Execute(context.Background(), rec, ethRules())

	if rec.Status != model.StatusRejectedBySizing {
		t.Errorf("status: got %s, want %s", rec.Status, model.StatusRejectedBySizing)
	}
	if len(mock.Placed) != 0 {
		t.Error("rejected recommendation must not reach the exchange")
	}
}

func TestExecute_RejectedByExchange(t *testing.T) {
	mock := &exchange.MockExchange{PlaceErr: fmt.Errorf("insufficient balance")}
	exec, st, _ := newTestExecutor(t, mock)

	if err := st.UpsertTarget(&model.TargetAllocation{Symbol: "eth", TargetPercentage: 30}); err != nil {
		t.Fatal(err)
	}

	rec := &model.Recommendation{
		Symbol: "ETH", Action: model.ActionBuy, Quantity: 1, Price: 3000,
		Status: model.StatusProposed,
	}
	exec.Execute(context.Background(), rec, ethRules())

	if rec.Status != model.StatusRejectedByExchange {
		t.Errorf("status: got %s, want %s", rec.Status, model.StatusRejectedByExchange)
	}
	// A failed buy must not touch the cost basis.
	target, _ := st.GetTarget("eth")
	if target.AverageCost != 0 || target.Quantity != 0 {
		t.Errorf("rejected order mutated the target record: %+v", target)
	}
}
