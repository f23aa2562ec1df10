package cartdto

import "time"

// CartView is the cart as rendered for the storefront.
type CartView struct {
	Items     []CartLine    `json:"items"`
	ItemCount int           `json:"item_count"`
	Coupon    *CartCoupon   `json:"coupon"`
	Totals    CartTotals    `json:"totals"`
	Display   TotalsDisplay `json:"display"`
}

// CartLine is one line with its amounts as fixed two-decimal strings.
type CartLine struct {
	ProductID        int    `json:"product_id"`
	Name             string `json:"name"`
	Image            string `json:"image"`
	Quantity         int    `json:"quantity"`
	UnitPrice        string `json:"unit_price"`
	LineTotal        string `json:"line_total"`
	UnitPriceDisplay string `json:"unit_price_display"`
	LineTotalDisplay string `json:"line_total_display"`
}

// CartCoupon describes the applied coupon.
type CartCoupon struct {
	Code    string `json:"code"`
	Rate    string `json:"rate"`
	Percent string `json:"percent"`
}

// CartTotals are the rounded totals.
type CartTotals struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// TotalsDisplay are the totals formatted for the cart footer.
type TotalsDisplay struct {
	Subtotal string  `json:"subtotal"`
	Shipping string  `json:"shipping"`
	Discount *string `json:"discount,omitempty"`
	Total    string  `json:"total"`
}

// Receipt is returned by a successful checkout.
type Receipt struct {
	OrderNumber string        `json:"order_number"`
	PlacedAt    time.Time     `json:"placed_at"`
	Items       []CartLine    `json:"items"`
	ItemCount   int           `json:"item_count"`
	Coupon      *CartCoupon   `json:"coupon"`
	Totals      CartTotals    `json:"totals"`
	Display     TotalsDisplay `json:"display"`
}

// AppliedCoupon is returned when a coupon is accepted.
type AppliedCoupon struct {
	Coupon CartCoupon `json:"coupon"`
	Cart   CartView   `json:"cart"`
}
