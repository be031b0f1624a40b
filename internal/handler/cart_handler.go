package handler

import (
	"net/http"

	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AddItemRequest is the body of POST /api/cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// SetQuantityRequest is the body of PUT /api/cart/items/{productId}.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartHandler handles cart HTTP requests. Every route responds with the
// recomputed cart, priced in the ?currency= query parameter.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), currentSession(r), r.URL.Query().Get("currency"))
	h.respond(w, view, err)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	view, err := h.service.AddItem(r.Context(), currentSession(r), req.ProductID, r.URL.Query().Get("currency"))
	h.respond(w, view, err)
}

// SetQuantity handles PUT /api/cart/items/{productId}.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	view, err := h.service.SetQuantity(r.Context(), currentSession(r), chi.URLParam(r, "productId"), req.Quantity, r.URL.Query().Get("currency"))
	h.respond(w, view, err)
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveItem(r.Context(), currentSession(r), chi.URLParam(r, "productId"), r.URL.Query().Get("currency"))
	h.respond(w, view, err)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), currentSession(r)); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) respond(w http.ResponseWriter, view *service.CartView, err error) {
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
