package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/baykery/storefront-service/internal/cache"
	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/repository"
)

type ZoneRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	FeePEN      decimal.Decimal `json:"feePEN"`
	Active      *bool           `json:"active,omitempty"`
	Order       int             `json:"order"`
}

func (req *ZoneRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if req.FeePEN.IsNegative() {
		fields["feePEN"] = "must not be negative"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (req *ZoneRequest) apply(z *models.DeliveryZone) {
	z.Name = strings.TrimSpace(req.Name)
	z.Description = req.Description
	z.FeePEN = req.FeePEN
	z.Active = true
	if req.Active != nil {
		z.Active = *req.Active
	}
	z.Order = req.Order
}

type ZoneHandler struct {
	zones  *repository.ZoneRepo
	cache  *cache.ZoneCache
	logger zerolog.Logger
}

func NewZoneHandler(zones *repository.ZoneRepo, zoneCache *cache.ZoneCache, logger zerolog.Logger) *ZoneHandler {
	return &ZoneHandler{zones: zones, cache: zoneCache, logger: logger}
}

// ListActive handles GET /api/delivery-zones, serving the cached active-zone
// list when warm.
func (h *ZoneHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	if zones, ok := h.cache.Get(); ok {
		writeJSON(w, http.StatusOK, zones)
		return
	}

	zones, err := h.zones.List(r.Context(), false)
	if err != nil {
		h.logger.Error().Err(err).Msg("list zones failed")
		writeError(w, http.StatusInternalServerError, "could not list delivery zones")
		return
	}
	if zones == nil {
		zones = []models.DeliveryZone{}
	}
	h.cache.Set(zones)
	writeJSON(w, http.StatusOK, zones)
}

// ListAll handles GET /api/admin/zones.
func (h *ZoneHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	zones, err := h.zones.List(r.Context(), true)
	if err != nil {
		h.logger.Error().Err(err).Msg("list zones failed")
		writeError(w, http.StatusInternalServerError, "could not list delivery zones")
		return
	}
	if zones == nil {
		zones = []models.DeliveryZone{}
	}
	writeJSON(w, http.StatusOK, zones)
}

// Create handles POST /api/admin/zones.
func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ZoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	zone := &models.DeliveryZone{ID: uuid.NewString()}
	req.apply(zone)

	if err := h.zones.Create(r.Context(), zone); err != nil {
		h.logger.Error().Err(err).Msg("create zone failed")
		writeError(w, http.StatusInternalServerError, "could not create delivery zone")
		return
	}

	h.cache.Invalidate()
	writeJSON(w, http.StatusCreated, zone)
}

// Update handles PUT /api/admin/zones/{id}.
func (h *ZoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ZoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	zone := &models.DeliveryZone{ID: id}
	req.apply(zone)

	if err := h.zones.Update(r.Context(), zone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "delivery zone not found")
			return
		}
		h.logger.Error().Err(err).Msg("update zone failed")
		writeError(w, http.StatusInternalServerError, "could not update delivery zone")
		return
	}

	h.cache.Invalidate()
	writeJSON(w, http.StatusOK, zone)
}

// Delete handles DELETE /api/admin/zones/{id}.
func (h *ZoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.zones.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "delivery zone not found")
			return
		}
		h.logger.Error().Err(err).Msg("delete zone failed")
		writeError(w, http.StatusInternalServerError, "could not delete delivery zone")
		return
	}

	h.cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
