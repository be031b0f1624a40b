package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order HTTP requests.
type OrderHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(checkout service.CheckoutService, orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/checkout.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.checkout.Checkout(r.Context(), currentSession(r), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/orders?status=&limit=&offset=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(w, r, h.logger)
	if !ok {
		return
	}

	var status model.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := model.ParseOrderStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrorResponse{
				Error: model.ErrCodeValidation, Message: err.Error(), Field: "status",
			}, h.logger)
			return
		}
		status = parsed
	}

	orders, err := h.orders.List(r.Context(), currentSession(r), status, limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.orders.GetByID(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/orders/{id}/history.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.orders.History(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusUpdateRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	record, err := h.orders.UpdateStatus(r.Context(), currentSession(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, record)
}
