package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/baykery/storefront-service/internal/api/middleware"
	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/repository"
	"github.com/baykery/storefront-service/internal/service"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
	Active      *bool  `json:"active,omitempty"`
}

func (req *CategoryRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if req.Order < 0 {
		fields["order"] = "must not be negative"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (req *CategoryRequest) apply(c *models.Category) {
	c.Name = strings.TrimSpace(req.Name)
	c.Slug = req.Slug
	if c.Slug == "" {
		c.Slug = service.Slugify(c.Name)
	}
	c.Description = req.Description
	c.Order = req.Order
	c.Active = true
	if req.Active != nil {
		c.Active = *req.Active
	}
}

type CategoryHandler struct {
	categories *repository.CategoryRepo
	logger     zerolog.Logger
}

func NewCategoryHandler(categories *repository.CategoryRepo, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// List handles GET /api/categories. Inactive categories are only visible to
// admins asking for them.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	isAdmin := user != nil && user.Role == models.RoleAdmin
	includeInactive := isAdmin && r.URL.Query().Get("includeInactive") == "true"

	categories, err := h.categories.List(r.Context(), includeInactive)
	if err != nil {
		h.logger.Error().Err(err).Msg("list categories failed")
		writeError(w, http.StatusInternalServerError, "could not list categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/admin/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	category := &models.Category{ID: uuid.NewString()}
	req.apply(category)

	if err := h.categories.Create(r.Context(), category); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "a category with this slug already exists")
			return
		}
		h.logger.Error().Err(err).Msg("create category failed")
		writeError(w, http.StatusInternalServerError, "could not create category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/admin/categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	category := &models.Category{ID: id}
	req.apply(category)

	if err := h.categories.Update(r.Context(), category); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSlug):
			writeError(w, http.StatusBadRequest, "a category with this slug already exists")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error().Err(err).Msg("update category failed")
			writeError(w, http.StatusInternalServerError, "could not update category")
		}
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/admin/categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error().Err(err).Msg("delete category failed")
		writeError(w, http.StatusInternalServerError, "could not delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
