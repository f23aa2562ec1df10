package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/money"
)

type productDTO struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Price        json.Number  `json:"price"`
	PriceDisplay string       `json:"price_display"`
	Image        string       `json:"image"`
	Category     string       `json:"category"`
	Rating       float64      `json:"rating"`
	RatingCount  int          `json:"rating_count"`
	Tag          *string      `json:"tag,omitempty"`
	OldPrice     *json.Number `json:"old_price,omitempty"`
}

type productListResponse struct {
	Category string       `json:"category"`
	Products []productDTO `json:"products"`
}

func newProductDTO(p catalog.Product) productDTO {
	dto := productDTO{
		ID:           p.ID,
		Name:         p.Name,
		Price:        money.Number(p.Price),
		PriceDisplay: money.Format(p.Price),
		Image:        p.Image,
		Category:     p.Category,
		Rating:       p.Rating,
		RatingCount:  p.RatingCount,
		Tag:          p.Tag,
	}
	if p.OldPrice != nil {
		old := money.Number(*p.OldPrice)
		dto.OldPrice = &old
	}
	return dto
}

// ListProducts returns the catalog, optionally filtered by ?category=.
func ListProducts(svc catalog.Lister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := validators.QueryString(r, "category")
		if category == "" {
			category = catalog.CategoryAll
		}
		filtered := catalog.FilterByCategory(products, category)

		out := make([]productDTO, 0, len(filtered))
		for _, p := range filtered {
			out = append(out, newProductDTO(p))
		}
		responses.WriteSuccess(w, productListResponse{Category: category, Products: out})
	}
}

// ListCategories returns "all" followed by every distinct category in the feed.
func ListCategories(svc catalog.Lister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories := append([]string{catalog.CategoryAll}, catalog.Categories(products)...)
		responses.WriteSuccess(w, map[string][]string{"categories": categories})
	}
}
