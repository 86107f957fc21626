package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/repository"
)

type OrderStatusRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

type OrderHandler struct {
	orders *repository.OrderRepo
	logger zerolog.Logger
}

func NewOrderHandler(orders *repository.OrderRepo, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// List handles GET /api/admin/orders with optional status and deliveryDate
// filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.OrderFilter{}
	if s := q.Get("status"); s != "" {
		status := models.OrderStatus(s)
		if !status.Valid() {
			writeFieldErrors(w, map[string]string{"status": "unknown order status"})
			return
		}
		filter.Status = status
	}
	if d := q.Get("deliveryDate"); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeFieldErrors(w, map[string]string{"deliveryDate": "use YYYY-MM-DD"})
			return
		}
		filter.DeliveryDate = &date
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	orders, total, err := h.orders.List(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("list orders failed")
		writeError(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + limit - 1) / limit,
		},
	})
}

// Get handles GET /api/admin/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Msg("get order failed")
		writeError(w, http.StatusInternalServerError, "could not load order")
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/admin/orders/{id}, adjusting the
// fulfillment and/or payment status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req OrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var status *models.OrderStatus
	if req.Status != nil {
		s := models.OrderStatus(*req.Status)
		if !s.Valid() {
			writeFieldErrors(w, map[string]string{"status": "unknown order status"})
			return
		}
		status = &s
	}
	var payment *models.PaymentStatus
	if req.PaymentStatus != nil {
		p := models.PaymentStatus(*req.PaymentStatus)
		if !p.Valid() {
			writeFieldErrors(w, map[string]string{"paymentStatus": "unknown payment status"})
			return
		}
		payment = &p
	}
	if status == nil && payment == nil {
		writeFieldErrors(w, map[string]string{"status": "nothing to update"})
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, status, payment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error().Err(err).Msg("update order status failed")
		writeError(w, http.StatusInternalServerError, "could not update order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}
