package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// One is decimal one
var One = FromInt(1)

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// Parse reads s permissively. Surrounding blanks are ignored and a lone
// decimal comma is accepted. The second result is false when s could not
// be read, in which case the value is zero.
func Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, false
	}
	if d, err := FromString(s); err == nil {
		return d, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if d, err := FromString(strings.Replace(s, ",", ".", 1)); err == nil {
			return d, true
		}
	}
	return Zero, false
}

// OrZero parses s permissively, returning zero on failure
func OrZero(s string) decimal.Decimal {
	d, _ := Parse(s)
	return d
}

// Div divides a by b, rounds half up to 2 places. Division by zero yields zero.
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.DivRound(b, 2)
}

// NonZeroOr returns d unless it is nil or zero, in which case def
func NonZeroOr(d *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if d == nil || d.IsZero() {
		return def
	}
	return *d
}

// Rescale returns amount * numerator / denominator rounded half up to 2
// places. A zero denominator is treated as one.
func Rescale(amount, numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		denominator = One
	}
	return Div(amount.Mul(numerator), denominator)
}

// Sum sums a slice of decimals
func Sum(values ...decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}
