package voucher

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name  string
		typ   Type
		value string
		base  string
		want  string
	}{
		{"percentage", TypePercentage, "20", "100.00", "20.00"},
		{"percentage rounds half up", TypePercentage, "12.5", "99.99", "12.50"},
		{"percentage full", TypePercentage, "100", "250.75", "250.75"},
		{"fixed below base", TypeFixedAmount, "20", "100", "20"},
		{"fixed capped at base", TypeFixedAmount, "50", "30", "30"},
		{"full waiver", TypeFullWaiver, "0", "250", "250"},
		{"zero base", TypeFullWaiver, "0", "0", "0"},
		{"percentage zero base", TypePercentage, "10", "0", "0"},
		{"unknown type", Type("bogo"), "10", "100", "0"},
		{"negative base", TypeFixedAmount, "10", "-5", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(tc.typ, d(tc.value), d(tc.base))
			require.True(t, d(tc.want).Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestCalculateFixedNeverExceedsBase(t *testing.T) {
	for value := int64(1); value <= 500; value += 7 {
		for base := int64(0); base <= 300; base += 13 {
			got := Calculate(TypeFixedAmount, decimal.NewFromInt(value), decimal.NewFromInt(base))
			require.True(t, got.LessThanOrEqual(decimal.NewFromInt(base)))
			require.False(t, got.IsNegative())
		}
	}
}

func TestCalculateHundredPercentEqualsBase(t *testing.T) {
	for _, base := range []string{"0.01", "1", "99.99", "150.00", "12345.67"} {
		require.True(t, d(base).Equal(Calculate(TypePercentage, hundred, d(base))), base)
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	first := Calculate(TypePercentage, d("33.33"), d("100"))
	second := Calculate(TypePercentage, d("33.33"), d("100"))
	require.True(t, first.Equal(second))
	require.Equal(t, "33.33", first.StringFixed(2))
}
