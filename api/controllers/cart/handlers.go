package cart

import (
	"context"
	"net/http"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const productIDParam = "productID"

// Service is the part of the cart store the HTTP layer drives.
type Service interface {
	Snapshot() cartsvc.View
	AddItem(ctx context.Context, productID int) error
	RemoveItem(ctx context.Context, productID int)
	SetQuantity(ctx context.Context, productID, quantity int) error
	Increment(ctx context.Context, productID int) error
	Decrement(ctx context.Context, productID int) error
	Clear(ctx context.Context)
	ApplyCoupon(ctx context.Context, code string) (cartsvc.AppliedCoupon, error)
	RemoveCoupon(ctx context.Context)
	Checkout(ctx context.Context) (cartsvc.Receipt, error)
}

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
}

// CartFetch renders the current cart.
func CartFetch(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		responses.WriteSuccess(w, newCartView(svc.Snapshot()))
	}
}

// CartAddItem adds one unit of the product in the body.
func CartAddItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddItem(r.Context(), payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(svc.Snapshot()))
	}
}

// CartRemoveItem drops a line. Unknown products are ignored.
func CartRemoveItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		productID, err := validators.ParsePathID(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.RemoveItem(r.Context(), productID)
		responses.WriteSuccess(w, newCartView(svc.Snapshot()))
	}
}

// CartSetQuantity sets the absolute quantity of a line.
func CartSetQuantity(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		productID, err := validators.ParsePathID(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.SetQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetQuantity(r.Context(), productID, *payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(svc.Snapshot()))
	}
}

// CartIncrement adds one unit to a line.
func CartIncrement(svc Service, logg *logger.Logger) http.HandlerFunc {
	return stepHandler(svc, logg, func(s Service, ctx context.Context, id int) error {
		return s.Increment(ctx, id)
	})
}

// CartDecrement removes one unit from a line.
func CartDecrement(svc Service, logg *logger.Logger) http.HandlerFunc {
	return stepHandler(svc, logg, func(s Service, ctx context.Context, id int) error {
		return s.Decrement(ctx, id)
	})
}

func stepHandler(svc Service, logg *logger.Logger, step func(Service, context.Context, int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		productID, err := validators.ParsePathID(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := step(svc, r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(svc.Snapshot()))
	}
}

// CartClear empties the cart and drops the coupon.
func CartClear(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		svc.Clear(r.Context())
		responses.WriteSuccess(w, newCartView(svc.Snapshot()))
	}
}

// CartApplyCoupon applies the coupon in the body.
func CartApplyCoupon(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		var payload cartdto.ApplyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applied, err := svc.ApplyCoupon(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartdto.AppliedCoupon{
			Coupon: newAppliedCoupon(applied),
			Cart:   newCartView(svc.Snapshot()),
		})
	}
}

// CartRemoveCoupon detaches the applied coupon.
func CartRemoveCoupon(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		svc.RemoveCoupon(r.Context())
		responses.WriteSuccess(w, newCartView(svc.Snapshot()))
	}
}

// CartCheckout places the simulated order and returns its receipt.
func CartCheckout(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		receipt, err := svc.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newReceipt(receipt))
	}
}
