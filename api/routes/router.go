package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// NewRouter mounts the storefront API. metricsHandler may be nil when metrics are disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storagePinger controllers.Pinger,
	cartService cartcontrollers.Service,
	catalogLister catalog.Lister,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"storage": storagePinger,
		}))
	})

	if cfg.Metrics.Enabled && metricsHandler != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogLister, logg))
			r.Get("/categories", controllers.ListCategories(catalogLister, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Post("/checkout", cartcontrollers.CartCheckout(cartService, logg))

			r.Route("/items", func(r chi.Router) {
				r.Post("/", cartcontrollers.CartAddItem(cartService, logg))
				r.Put("/{productID}", cartcontrollers.CartSetQuantity(cartService, logg))
				r.Delete("/{productID}", cartcontrollers.CartRemoveItem(cartService, logg))
				r.Post("/{productID}/increment", cartcontrollers.CartIncrement(cartService, logg))
				r.Post("/{productID}/decrement", cartcontrollers.CartDecrement(cartService, logg))
			})

			r.Post("/coupon", cartcontrollers.CartApplyCoupon(cartService, logg))
			r.Delete("/coupon", cartcontrollers.CartRemoveCoupon(cartService, logg))
		})
	})

	return r
}
