package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/baykery/storefront-service/internal/api/handlers"
	"github.com/baykery/storefront-service/internal/api/middleware"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Checkout   *handlers.CheckoutHandler
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Zones      *handlers.ZoneHandler
	Coupons    *handlers.CouponHandler
	Orders     *handlers.OrderHandler
	Auth       *handlers.AuthHandler
}

// NewRouter builds the HTTP router for the storefront service.
func NewRouter(h Handlers, resolver middleware.UserResolver, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.LoadUser(resolver))

	r.Route("/api", func(r chi.Router) {
		// Public storefront endpoints
		r.Get("/products", h.Products.List)
		r.Get("/products/{slug}", h.Products.GetBySlug)
		r.Get("/categories", h.Categories.List)
		r.Get("/delivery-zones", h.Zones.ListActive)
		r.Post("/checkout", h.Checkout.Checkout)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Products.List)
				r.Post("/", h.Products.Create)
				r.Put("/{id}", h.Products.Update)
				r.Delete("/{id}", h.Products.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Categories.List)
				r.Post("/", h.Categories.Create)
				r.Put("/{id}", h.Categories.Update)
				r.Delete("/{id}", h.Categories.Delete)
			})

			r.Route("/zones", func(r chi.Router) {
				r.Get("/", h.Zones.ListAll)
				r.Post("/", h.Zones.Create)
				r.Put("/{id}", h.Zones.Update)
				r.Delete("/{id}", h.Zones.Delete)
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", h.Coupons.List)
				r.Post("/", h.Coupons.Create)
				r.Put("/{id}", h.Coupons.Update)
				r.Delete("/{id}", h.Coupons.Delete)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.List)
				r.Get("/{id}", h.Orders.Get)
				r.Patch("/{id}", h.Orders.UpdateStatus)
			})
		})
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
