package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/service"
)

type CheckoutItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	Phone          string                `json:"phone"`
	Address        string                `json:"address"`
	District       string                `json:"district"`
	Notes          string                `json:"notes,omitempty"`
	DeliveryDate   string                `json:"deliveryDate"` // YYYY-MM-DD
	DeliveryWindow string                `json:"deliveryWindow"`
	ZoneID         string                `json:"zoneId"`
	Items          []CheckoutItemRequest `json:"items"`
	CouponCode     string                `json:"couponCode,omitempty"`
	TipPEN         decimal.Decimal       `json:"tipPEN"`
}

func (req *CheckoutRequest) validate() (service.CheckoutInput, map[string]string) {
	fields := map[string]string{}

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fields["email"] = "valid email required"
	}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if len(strings.TrimSpace(req.Phone)) < 9 {
		fields["phone"] = "at least 9 digits required"
	}
	if strings.TrimSpace(req.Address) == "" {
		fields["address"] = "required"
	}
	if strings.TrimSpace(req.District) == "" {
		fields["district"] = "required"
	}

	date, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		fields["deliveryDate"] = "use YYYY-MM-DD"
	}

	window := models.DeliveryWindow(req.DeliveryWindow)
	if !window.Valid() {
		fields["deliveryWindow"] = "must be MORNING or AFTERNOON"
	}

	if req.ZoneID == "" {
		fields["zoneId"] = "required"
	}

	if len(req.Items) == 0 {
		fields["items"] = "at least one item required"
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			fields["items"] = "every item needs a productId and a positive quantity"
			break
		}
	}

	if req.TipPEN.IsNegative() {
		fields["tipPEN"] = "must not be negative"
	}

	if len(fields) > 0 {
		return service.CheckoutInput{}, fields
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return service.CheckoutInput{
		Email:          strings.TrimSpace(req.Email),
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		District:       strings.TrimSpace(req.District),
		Notes:          strings.TrimSpace(req.Notes),
		DeliveryDate:   date,
		DeliveryWindow: window,
		ZoneID:         req.ZoneID,
		Items:          items,
		CouponCode:     req.CouponCode,
		TipPEN:         req.TipPEN,
	}, nil
}

type CheckoutHandler struct {
	checkout *service.CheckoutService
	logger   zerolog.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, fields := req.validate()
	if fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeliveryDateNotWeekend),
			errors.Is(err, service.ErrDeliveryDateNotFuture),
			errors.Is(err, service.ErrWindowFull):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrProductsUnavailable),
			errors.Is(err, service.ErrInsufficientStock),
			errors.Is(err, service.ErrInvalidZone):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("checkout failed")
			writeError(w, http.StatusInternalServerError, "could not process the order")
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
