package catalog

import (
	"context"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

// Static serves a fixed, pre-validated product list from memory.
type Static struct {
	products []Product
}

// NewStatic validates the products and keeps a private copy of them.
func NewStatic(products []Product) (*Static, error) {
	if err := ValidateFeed(products); err != nil {
		return nil, err
	}
	copied := make([]Product, len(products))
	copy(copied, products)
	return &Static{products: copied}, nil
}

// FetchProduct returns the product with the given id.
func (s *Static) FetchProduct(ctx context.Context, id int) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProductLookup, err, "product lookup canceled")
	}
	product, ok := findProduct(s.products, id)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeProductLookup, productNotFoundError).
			WithDetails(map[string]any{"product_id": id})
	}
	return product, nil
}

// ListProducts returns a copy of the catalog.
func (s *Static) ListProducts(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
