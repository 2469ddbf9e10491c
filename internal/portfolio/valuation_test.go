package portfolio

import (
	"math"
	"testing"
)

func TestValue_PercentagesSumTo100(t *testing.T) {
	v := NewValuer("USDT")
	holdings := map[string]float64{
		"btc": 0.5,
		"eth": 3,
		"sol": 42,
	}
	prices := map[string]float64{
		"BTCUSDT": 60000,
		"ETHUSDT": 3000,
		"SOLUSDT": 150,
	}

	valued, total := v.Value(holdings, prices)
	if len(valued) != 3 {
		t.Fatalf("expected 3 valued holdings, got %d", len(valued))
	}
	wantTotal := 0.5*60000 + 3*3000.0 + 42*150.0
	if math.Abs(total-wantTotal) > 1e-6 {
		t.Errorf("total: got %v, want %v", total, wantTotal)
	}

	sum := 0.0
	for _, vh := range valued {
		sum += vh.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

func TestValue_MissingQuoteExcluded(t *testing.T) {
	v := NewValuer("USDT")
	holdings := map[string]float64{
		"btc":     1,
		"unknown": 500,
	}
	prices := map[string]float64{"BTCUSDT": 60000}

	valued, total := v.Value(holdings, prices)
	if len(valued) != 1 {
		t.Fatalf("expected 1 valued holding, got %d", len(valued))
	}
	if valued[0].Symbol != "BTC" {
		t.Errorf("expected BTC, got %s", valued[0].Symbol)
	}
	// The unpriced holding contributes nothing to the total.
	if total != 60000 {
		t.Errorf("total: got %v, want 60000", total)
	}
	if valued[0].Percentage != 100 {
		t.Errorf("percentage: got %v, want 100", valued[0].Percentage)
	}
}

func TestValue_SortedByPercentageDescending(t *testing.T) {
	v := NewValuer("USDT")
	holdings := map[string]float64{
		"ada": 1000,
		"btc": 1,
		"eth": 5,
	}
	prices := map[string]float64{
		"ADAUSDT": 0.5,
		"BTCUSDT": 60000,
		"ETHUSDT": 3000,
	}

	valued, _ := v.Value(holdings, prices)
	for i := 1; i < len(valued); i++ {
		if valued[i].Percentage > valued[i-1].Percentage {
			t.Errorf("not sorted descending at %d: %v > %v", i, valued[i].Percentage, valued[i-1].Percentage)
		}
	}
	if valued[0].Symbol != "BTC" {
		t.Errorf("largest holding should be BTC, got %s", valued[0].Symbol)
	}
}

func TestValue_ZeroTotal(t *testing.T) {
	v := NewValuer("USDT")
	valued, total := v.Value(map[string]float64{"btc": 0}, map[string]float64{"BTCUSDT": 60000})
	if total != 0 {
		t.Errorf("total: got %v, want 0", total)
	}
	for _, vh := range valued {
		if vh.Percentage != 0 {
			t.Errorf("%s: percentage should stay zero when total is zero, got %v", vh.Symbol, vh.Percentage)
		}
	}
}
