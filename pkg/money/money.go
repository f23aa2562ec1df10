// Package money holds the display helpers layered on top of exact decimal amounts.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CentPlaces is the number of fractional digits shown to shoppers.
const CentPlaces int32 = 2

// Round rounds an amount half-away-from-zero to whole cents.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CentPlaces)
}

// Format renders an amount as "$12.34".
func Format(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(CentPlaces)
	}
	return "$" + amount.StringFixed(CentPlaces)
}

// FormatDiscount renders a discount the way the cart footer shows it: "-$2.00".
func FormatDiscount(amount decimal.Decimal) string {
	return "-$" + amount.Abs().StringFixed(CentPlaces)
}

// FormatShipping renders shipping, using "Free" when nothing is charged.
func FormatShipping(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "Free"
	}
	return Format(amount)
}

// Number encodes an amount as a bare JSON number, keeping every significant digit.
func Number(amount decimal.Decimal) json.Number {
	return json.Number(amount.String())
}

// FromNumber parses a JSON number back into an exact amount.
func FromNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(n.String())
}
