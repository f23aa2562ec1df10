package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-cart/pkg/money"
)

// DefaultShippingFee is the flat fee charged on any non-empty cart.
var DefaultShippingFee = decimal.RequireFromString("5.99")

// Line is the minimal view of a cart line the engine prices.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals holds exact, unrounded amounts derived from cart state.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Rounded returns the totals with every field rounded to whole cents.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: money.Round(t.Subtotal),
		Shipping: money.Round(t.Shipping),
		Discount: money.Round(t.Discount),
		Total:    money.Round(t.Total),
	}
}

// HasDiscount reports whether a discount row should be shown.
func (t Totals) HasDiscount() bool {
	return t.Discount.IsPositive()
}

// Engine derives totals. It holds no state besides configuration and is safe to share.
type Engine struct {
	shippingFee decimal.Decimal
}

// NewEngine builds an engine charging the provided flat shipping fee. Negative fees are clamped to zero.
func NewEngine(shippingFee decimal.Decimal) *Engine {
	if shippingFee.IsNegative() {
		shippingFee = decimal.Zero
	}
	return &Engine{shippingFee: shippingFee}
}

// ShippingFee returns the configured flat fee.
func (e *Engine) ShippingFee() decimal.Decimal {
	return e.shippingFee
}

// Compute prices the lines with an optional coupon rate.
func (e *Engine) Compute(lines []Line, rate *decimal.Decimal) Totals {
	subtotal := Subtotal(lines)

	shipping := decimal.Zero
	discount := decimal.Zero
	if subtotal.IsPositive() {
		shipping = e.shippingFee
		if rate != nil && rate.IsPositive() {
			discount = subtotal.Mul(*rate)
		}
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(shipping).Sub(discount),
	}
}

// Subtotal sums unit price times quantity. Lines with non-positive quantity contribute nothing.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}
