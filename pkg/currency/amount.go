package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SplitDenomination recognizes tickers that carry a unit prefix and returns
// the base symbol plus the multiplier converting one listed unit into base
// units. "1000SATS" -> ("SATS", 1000); "1MBABYDOGE" -> ("BABYDOGE", 1e6);
// ordinary tickers return unchanged with factor 1.
//
// The "1M" shorthand means 1,000,000 and is checked before the plain
// numeric prefix so "1MBABYDOGE" does not parse as prefix "1".
func SplitDenomination(symbol string) (string, decimal.Decimal) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	one := decimal.NewFromInt(1)
	if s == "" {
		return s, one
	}

	if strings.HasPrefix(s, "1M") && len(s) > 2 && !isDigit(s[2]) {
		return s[2:], decimal.NewFromInt(1_000_000)
	}

	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	// A numeric prefix only counts as a denomination when it is a round
	// power of ten of at least 1000 and a real symbol follows it; smaller
	// prefixes ("100X") are token names, not units.
	if i >= 4 && i < len(s) {
		prefix := s[:i]
		if prefix[0] == '1' && strings.Count(prefix, "0") == len(prefix)-1 {
			factor, err := decimal.NewFromString(prefix)
			if err == nil {
				return s[i:], factor
			}
		}
	}

	return s, one
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// IsStepMultiple reports whether amount is an integer multiple of step.
// A zero or negative step means the amount is unconstrained.
func IsStepMultiple(amount, step decimal.Decimal) bool {
	if step.Sign() <= 0 {
		return true
	}
	return amount.Mod(step).IsZero()
}

// ToBaseUnits converts an amount expressed in listed-ticker units into
// canonical base units using the listing's denomination factor.
func ToBaseUnits(amount, factor decimal.Decimal) decimal.Decimal {
	if factor.IsZero() || factor.Equal(decimal.NewFromInt(1)) {
		return amount
	}
	return amount.Mul(factor)
}

// FromBaseUnits converts canonical base units back into listed-ticker units.
func FromBaseUnits(amount, factor decimal.Decimal) decimal.Decimal {
	if factor.IsZero() || factor.Equal(decimal.NewFromInt(1)) {
		return amount
	}
	return amount.Div(factor)
}
