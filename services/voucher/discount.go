package voucher

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Calculate returns the discount a voucher of type t and value grants on
// baseFee. Percentages are rounded half-up to cents. The result never
// exceeds baseFee and is zero for unknown types or a negative base.
func Calculate(t Type, value, baseFee decimal.Decimal) decimal.Decimal {
	if baseFee.IsNegative() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch t {
	case TypePercentage:
		discount = baseFee.Mul(value).Div(hundred).Round(2)
	case TypeFixedAmount:
		discount = decimal.Min(value, baseFee)
	case TypeFullWaiver:
		discount = baseFee
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, baseFee)
}
