package cartdto

// AddItemRequest puts one unit of a catalog product in the cart.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

// SetQuantityRequest sets the absolute quantity of a line. Zero or less removes it; the
// max tag mirrors cart.MaxQuantity.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=2147483647"`
}

// ApplyCouponRequest carries the code typed by the shopper.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}
