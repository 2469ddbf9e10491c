package sheet

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		cell string
		want float64
	}{
		{"1.5", 1.5},
		{"1,5", 1.5},
		{"2.5%", 2.5},
		{"12,34%", 12.34},
		{"$100", 100},
		{"R$ 10,5", 10.5},
		{"$1,234.56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"€ 42", 42},
		{" 7 ", 7},
		{"-3,25", -3.25},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.cell)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.cell, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%q: got %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestParseNumber_Invalid(t *testing.T) {
	for _, cell := range []string{"", "   ", "n/a", "--", "..."} {
		if _, err := ParseNumber(cell); err == nil {
			t.Errorf("%q: expected error", cell)
		}
	}
}

func TestCSVURL(t *testing.T) {
	r := &Reader{SheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit?gid=0"}
	want := "https://docs.google.com/spreadsheets/d/abc123/gviz/tq?tqx=out:csv"
	if got := r.CSVURL(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Non-Google URLs pass through untouched.
	r = &Reader{SheetURL: "https://example.com/targets.csv"}
	if got := r.CSVURL(); got != "https://example.com/targets.csv" {
		t.Errorf("got %q, want passthrough", got)
	}
}
