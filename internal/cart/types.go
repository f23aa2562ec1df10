package cart

import (
	"time"

	"github.com/angelmondragon/storefront-cart/internal/pricing"
	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. Name, price and image are snapshotted when the
// product is first added and never refreshed while the line exists.
type LineItem struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
	Quantity  int
}

// LineTotal is UnitPrice × Quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AppliedCoupon is the coupon currently attached to the cart.
type AppliedCoupon struct {
	Code string
	Rate decimal.Decimal
}

// View is a read-only copy of the cart taken at one instant. Version increases with every
// applied mutation.
type View struct {
	Version   uint64
	Items     []LineItem
	ItemCount int
	Coupon    *AppliedCoupon
	Totals    pricing.Totals
}

// IsEmpty reports whether the view has no lines.
func (v View) IsEmpty() bool {
	return len(v.Items) == 0
}

// Receipt describes a completed simulated checkout. OrderNumber is cosmetic and not unique.
type Receipt struct {
	OrderNumber string
	Items       []LineItem
	ItemCount   int
	Totals      pricing.Totals
	Coupon      *AppliedCoupon
	PlacedAt    time.Time
}
