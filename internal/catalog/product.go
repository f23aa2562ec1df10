package catalog

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// CategoryAll is the filter value that matches every product.
const CategoryAll = "all"

// Product mirrors one entry of the static product feed.
type Product struct {
	ID          int              `json:"id" validate:"gt=0"`
	Name        string           `json:"name" validate:"required"`
	Price       decimal.Decimal  `json:"price"`
	Image       string           `json:"image" validate:"required"`
	Category    string           `json:"category"`
	Rating      float64          `json:"rating" validate:"gte=0,lte=5"`
	RatingCount int              `json:"ratingCount" validate:"gte=0"`
	Tag         *string          `json:"tag,omitempty"`
	OldPrice    *decimal.Decimal `json:"oldPrice,omitempty"`
}

// Feed is the document served at the catalog feed URL.
type Feed struct {
	Products []Product `json:"products"`
}

// Lookup resolves the attributes needed to put a product in the cart.
type Lookup interface {
	FetchProduct(ctx context.Context, id int) (*Product, error)
}

// Lister returns the whole catalog for the product grid.
type Lister interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate checks the fields the cart relies on.
func (p Product) Validate() error {
	var err error
	if vErr := validate.Struct(p); vErr != nil {
		if fieldErrs, ok := vErr.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				err = multierr.Append(err, fmt.Errorf("%s failed %s", fe.Field(), fe.Tag()))
			}
		} else {
			err = multierr.Append(err, vErr)
		}
	}
	if p.Price.IsNegative() {
		err = multierr.Append(err, fmt.Errorf("price must not be negative"))
	}
	if p.OldPrice != nil && p.OldPrice.IsNegative() {
		err = multierr.Append(err, fmt.Errorf("oldPrice must not be negative"))
	}
	return err
}

// ValidateFeed reports every invalid or duplicated product in the feed.
func ValidateFeed(products []Product) error {
	var err error
	seen := make(map[int]struct{}, len(products))
	for i, p := range products {
		if pErr := p.Validate(); pErr != nil {
			err = multierr.Append(err, fmt.Errorf("product[%d] id=%d: %w", i, p.ID, pErr))
		}
		if _, dup := seen[p.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("product[%d]: duplicate id %d", i, p.ID))
		}
		seen[p.ID] = struct{}{}
	}
	return err
}

// FilterByCategory returns the products in the given category; "all" or empty keeps everything.
func FilterByCategory(products []Product, category string) []Product {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == CategoryAll {
		return products
	}
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Categories lists the distinct, lower-cased categories in sorted order.
func Categories(products []Product) []string {
	set := map[string]struct{}{}
	for _, p := range products {
		c := strings.ToLower(strings.TrimSpace(p.Category))
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func findProduct(products []Product, id int) (*Product, bool) {
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, true
		}
	}
	return nil, false
}
