package money

import "github.com/shopspring/decimal"

func init() {
	// The upstream API serializes prices as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Zero is the additive identity for price math.
var Zero = decimal.Zero

// FromFloat builds a price from a float input (request payloads).
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// EvenSplit divides a bundle price evenly across n components. The even split
// mirrors the upstream accounting behavior and is intentionally not
// proportional to component value.
func EvenSplit(price decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return price
	}
	return price.Div(decimal.NewFromInt(int64(n)))
}
