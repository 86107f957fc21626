package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/repository"
)

type CouponRequest struct {
	Code           string           `json:"code"`
	Type           string           `json:"type"`
	Value          decimal.Decimal  `json:"value"`
	MinSubtotalPEN *decimal.Decimal `json:"minSubtotalPEN,omitempty"`
	MaxDiscountPEN *decimal.Decimal `json:"maxDiscountPEN,omitempty"`
	StartsAt       *time.Time       `json:"startsAt,omitempty"`
	EndsAt         *time.Time       `json:"endsAt,omitempty"`
	MaxUses        *int             `json:"maxUses,omitempty"`
	Active         *bool            `json:"active,omitempty"`
}

func (req *CouponRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Code) == "" {
		fields["code"] = "required"
	}
	if !models.CouponType(req.Type).Valid() {
		fields["type"] = "must be PERCENTAGE or FIXED"
	}
	if !req.Value.GreaterThan(decimal.Zero) {
		fields["value"] = "must be positive"
	}
	if req.MaxUses != nil && *req.MaxUses <= 0 {
		fields["maxUses"] = "must be positive"
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		fields["endsAt"] = "must not precede startsAt"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (req *CouponRequest) apply(c *models.Coupon) {
	c.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	c.Type = models.CouponType(req.Type)
	c.Value = req.Value
	c.MinSubtotalPEN = req.MinSubtotalPEN
	c.MaxDiscountPEN = req.MaxDiscountPEN
	c.StartsAt = req.StartsAt
	c.EndsAt = req.EndsAt
	c.MaxUses = req.MaxUses
	c.Active = true
	if req.Active != nil {
		c.Active = *req.Active
	}
}

type CouponHandler struct {
	coupons *repository.CouponRepo
	logger  zerolog.Logger
}

func NewCouponHandler(coupons *repository.CouponRepo, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, logger: logger}
}

// List handles GET /api/admin/coupons.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list coupons failed")
		writeError(w, http.StatusInternalServerError, "could not list coupons")
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	writeJSON(w, http.StatusOK, coupons)
}

// Create handles POST /api/admin/coupons.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	coupon := &models.Coupon{ID: uuid.NewString()}
	req.apply(coupon)

	if err := h.coupons.Create(r.Context(), coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			writeError(w, http.StatusBadRequest, "a coupon with this code already exists")
			return
		}
		h.logger.Error().Err(err).Msg("create coupon failed")
		writeError(w, http.StatusInternalServerError, "could not create coupon")
		return
	}

	writeJSON(w, http.StatusCreated, coupon)
}

// Update handles PUT /api/admin/coupons/{id}.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	coupon, err := h.coupons.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Msg("load coupon failed")
		writeError(w, http.StatusInternalServerError, "could not load coupon")
		return
	}
	if coupon == nil {
		writeError(w, http.StatusNotFound, "coupon not found")
		return
	}

	req.apply(coupon)

	if err := h.coupons.Update(r.Context(), coupon); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCode):
			writeError(w, http.StatusBadRequest, "a coupon with this code already exists")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "coupon not found")
		default:
			h.logger.Error().Err(err).Msg("update coupon failed")
			writeError(w, http.StatusInternalServerError, "could not update coupon")
		}
		return
	}

	writeJSON(w, http.StatusOK, coupon)
}

// Delete handles DELETE /api/admin/coupons/{id}.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.coupons.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "coupon not found")
			return
		}
		h.logger.Error().Err(err).Msg("delete coupon failed")
		writeError(w, http.StatusInternalServerError, "could not delete coupon")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
