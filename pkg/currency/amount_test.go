package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitDenomination(t *testing.T) {
	tests := []struct {
		symbol     string
		wantBase   string
		wantFactor int64
	}{
		{"USDT", "USDT", 1},
		{"BTC", "BTC", 1},
		{"1000SATS", "SATS", 1000},
		{"1000CAT", "CAT", 1000},
		{"1MBABYDOGE", "BABYDOGE", 1000000},
		{"10000LADYS", "LADYS", 10000},
		// Not a round power of ten: keeps its name.
		{"100X", "100X", 1},
		// A digit-only symbol is not a denomination prefix.
		{"1000", "1000", 1},
		{"1INCH", "1INCH", 1},
		{"", "", 1},
	}

	for _, tt := range tests {
		base, factor := SplitDenomination(tt.symbol)
		if base != tt.wantBase || !factor.Equal(decimal.NewFromInt(tt.wantFactor)) {
			t.Errorf("SplitDenomination(%q) = (%q, %s), want (%q, %d)",
				tt.symbol, base, factor, tt.wantBase, tt.wantFactor)
		}
	}
}

func TestIsStepMultiple(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	tests := []struct {
		amount string
		step   string
		want   bool
	}{
		{"10", "0", true},     // zero step = unconstrained
		{"10", "1", true},
		{"10.5", "0.5", true},
		{"10.3", "0.5", false},
		{"0.00000001", "0.00000001", true},
		{"0.000000015", "0.00000001", false},
	}

	for _, tt := range tests {
		if got := IsStepMultiple(d(tt.amount), d(tt.step)); got != tt.want {
			t.Errorf("IsStepMultiple(%s, %s) = %v, want %v", tt.amount, tt.step, got, tt.want)
		}
	}
}

func TestBaseUnitConversion(t *testing.T) {
	factor := decimal.NewFromInt(1000)
	amount := decimal.NewFromInt(5) // 5 listed units of a 1000-prefixed ticker

	base := ToBaseUnits(amount, factor)
	if !base.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("ToBaseUnits = %s, want 5000", base)
	}
	back := FromBaseUnits(base, factor)
	if !back.Equal(amount) {
		t.Errorf("FromBaseUnits round trip = %s, want %s", back, amount)
	}
}
