package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, sessions session.Provider, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> Recovery -> Logging -> CORS -> APIKeyAuth
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Product.GetAll)
		r.Get("/products/{id}", h.Product.GetByID)
		r.Get("/categories", h.Product.Categories)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessions, logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.Get)
				r.Delete("/", h.Cart.Clear)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{productId}", h.Cart.SetQuantity)
				r.Delete("/items/{productId}", h.Cart.RemoveItem)
			})

			r.Post("/checkout", h.Order.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Order.List)
				r.Get("/{id}", h.Order.GetByID)
				r.Get("/{id}/history", h.Order.History)
				r.Patch("/{id}/status", h.Order.UpdateStatus)
			})
		})
	})

	return r
}
