package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/internal/decimal"
)

func TestFromInt(t *testing.T) {
	d := decimal.FromInt(100)
	assert.True(t, d.Equal(dec.NewFromInt(100)))
}

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"plain", "12.50", "12.5", true},
		{"blanks", "  7 ", "7", true},
		{"decimal comma", "3,25", "3.25", true},
		{"empty", "", "0", false},
		{"garbage", "abc", "0", false},
		{"grouped", "1,000.00", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decimal.Parse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(dec.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestDiv(t *testing.T) {
	a := dec.NewFromInt(100)
	b := dec.NewFromInt(3)
	assert.Equal(t, "33.33", decimal.Div(a, b).StringFixed(2))

	assert.True(t, decimal.Div(a, decimal.Zero).IsZero())
}

func TestRescale(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		numerator   string
		denominator string
		want        string
	}{
		{"package over quantity", "3.00", "5", "10", "1.50"},
		{"half up", "1", "1", "8", "0.13"},
		{"zero denominator", "2.00", "1", "0", "2.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decimal.Rescale(
				dec.RequireFromString(tt.amount),
				dec.RequireFromString(tt.numerator),
				dec.RequireFromString(tt.denominator),
			)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestNonZeroOr(t *testing.T) {
	zero := dec.Zero
	five := dec.NewFromInt(5)

	assert.True(t, decimal.NonZeroOr(nil, decimal.One).Equal(decimal.One))
	assert.True(t, decimal.NonZeroOr(&zero, decimal.One).Equal(decimal.One))
	assert.True(t, decimal.NonZeroOr(&five, decimal.One).Equal(five))
}

func TestSum(t *testing.T) {
	got := decimal.Sum(dec.NewFromInt(2), dec.NewFromInt(1), dec.Zero)
	assert.True(t, got.Equal(dec.NewFromInt(3)))
	assert.True(t, decimal.Sum().IsZero())
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}
