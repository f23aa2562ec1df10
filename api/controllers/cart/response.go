package cart

import (
	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/pricing"
	"github.com/angelmondragon/storefront-cart/pkg/money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func newCartView(view cart.View) cartdto.CartView {
	totals, display := newTotals(view.Totals)
	return cartdto.CartView{
		Items:     newLines(view.Items),
		ItemCount: view.ItemCount,
		Coupon:    newCoupon(view.Coupon),
		Totals:    totals,
		Display:   display,
	}
}

func newReceipt(r cart.Receipt) cartdto.Receipt {
	totals, display := newTotals(r.Totals)
	return cartdto.Receipt{
		OrderNumber: r.OrderNumber,
		PlacedAt:    r.PlacedAt,
		Items:       newLines(r.Items),
		ItemCount:   r.ItemCount,
		Coupon:      newCoupon(r.Coupon),
		Totals:      totals,
		Display:     display,
	}
}

func newLines(items []cart.LineItem) []cartdto.CartLine {
	lines := make([]cartdto.CartLine, 0, len(items))
	for _, item := range items {
		lineTotal := money.Round(item.LineTotal())
		lines = append(lines, cartdto.CartLine{
			ProductID:        item.ProductID,
			Name:             item.Name,
			Image:            item.ImageRef,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice.StringFixed(money.CentPlaces),
			LineTotal:        lineTotal.StringFixed(money.CentPlaces),
			UnitPriceDisplay: money.Format(item.UnitPrice),
			LineTotalDisplay: money.Format(lineTotal),
		})
	}
	return lines
}

func newCoupon(c *cart.AppliedCoupon) *cartdto.CartCoupon {
	if c == nil {
		return nil
	}
	out := newAppliedCoupon(*c)
	return &out
}

func newAppliedCoupon(c cart.AppliedCoupon) cartdto.CartCoupon {
	return cartdto.CartCoupon{
		Code:    c.Code,
		Rate:    c.Rate.String(),
		Percent: c.Rate.Mul(hundred).String() + "%",
	}
}

func newTotals(t pricing.Totals) (cartdto.CartTotals, cartdto.TotalsDisplay) {
	rounded := t.Rounded()
	totals := cartdto.CartTotals{
		Subtotal: rounded.Subtotal.StringFixed(money.CentPlaces),
		Shipping: rounded.Shipping.StringFixed(money.CentPlaces),
		Discount: rounded.Discount.StringFixed(money.CentPlaces),
		Total:    rounded.Total.StringFixed(money.CentPlaces),
	}
	display := cartdto.TotalsDisplay{
		Subtotal: money.Format(rounded.Subtotal),
		Shipping: money.FormatShipping(rounded.Shipping),
		Total:    money.Format(rounded.Total),
	}
	if rounded.HasDiscount() {
		d := money.FormatDiscount(rounded.Discount)
		display.Discount = &d
	}
	return totals, display
}
