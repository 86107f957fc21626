package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/baykery/storefront-service/internal/api/middleware"
	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/repository"
	"github.com/baykery/storefront-service/internal/service"
)

type ProductRequest struct {
	Slug        string           `json:"slug,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	PricePEN    decimal.Decimal  `json:"pricePEN"`
	CostPEN     *decimal.Decimal `json:"costPEN,omitempty"`
	Status      string           `json:"status,omitempty"`
	WeekendOnly *bool            `json:"weekendOnly,omitempty"`
	Allergens   []string         `json:"allergens,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Stock       int              `json:"stock"`
	SKU         string           `json:"sku,omitempty"`
	Weight      *int             `json:"weight,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Featured    bool             `json:"featured"`
}

func (req *ProductRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if !req.PricePEN.GreaterThan(decimal.Zero) {
		fields["pricePEN"] = "must be positive"
	}
	if req.Stock < 0 {
		fields["stock"] = "must not be negative"
	}
	if req.Status != "" && !models.ProductStatus(req.Status).Valid() {
		fields["status"] = "must be DRAFT, PUBLISHED or ARCHIVED"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (req *ProductRequest) apply(p *models.Product) {
	p.Name = strings.TrimSpace(req.Name)
	p.Slug = req.Slug
	if p.Slug == "" {
		p.Slug = service.Slugify(p.Name)
	}
	p.Description = req.Description
	p.PricePEN = req.PricePEN
	p.CostPEN = req.CostPEN
	if req.Status != "" {
		p.Status = models.ProductStatus(req.Status)
	} else if p.Status == "" {
		p.Status = models.ProductDraft
	}
	p.WeekendOnly = true
	if req.WeekendOnly != nil {
		p.WeekendOnly = *req.WeekendOnly
	}
	p.Allergens = emptyIfNil(req.Allergens)
	p.Tags = emptyIfNil(req.Tags)
	p.Images = emptyIfNil(req.Images)
	p.Stock = req.Stock
	p.SKU = req.SKU
	p.WeightGrams = req.Weight
	p.CategoryID = req.CategoryID
	p.Featured = req.Featured
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type ProductHandler struct {
	products *repository.ProductRepo
	logger   zerolog.Logger
}

func NewProductHandler(products *repository.ProductRepo, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// List handles GET /api/products. Non-admin callers only ever see published
// products; admins may filter by any status.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ProductFilter{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
	}
	if q.Get("featured") == "true" {
		t := true
		filter.Featured = &t
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	user := middleware.UserFromContext(r.Context())
	if user == nil || user.Role != models.RoleAdmin {
		filter.Status = models.ProductPublished
	} else if s := q.Get("status"); s != "" {
		filter.Status = models.ProductStatus(s)
	}

	products, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("list products failed")
		writeError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 12
	}
	pages := (total + limit - 1) / limit

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// GetBySlug handles GET /api/products/{slug}.
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.products.GetBySlug(r.Context(), slug)
	if err != nil {
		h.logger.Error().Err(err).Msg("get product failed")
		writeError(w, http.StatusInternalServerError, "could not load product")
		return
	}

	user := middleware.UserFromContext(r.Context())
	isAdmin := user != nil && user.Role == models.RoleAdmin
	if product == nil || (!isAdmin && product.Status != models.ProductPublished) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/admin/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	product := &models.Product{ID: uuid.NewString()}
	req.apply(product)

	if err := h.products.Create(r.Context(), product); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "a product with this slug already exists")
			return
		}
		h.logger.Error().Err(err).Msg("create product failed")
		writeError(w, http.StatusInternalServerError, "could not create product")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/admin/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Msg("load product failed")
		writeError(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	req.apply(product)

	if err := h.products.Update(r.Context(), product); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSlug):
			writeError(w, http.StatusBadRequest, "a product with this slug already exists")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "product not found")
		default:
			h.logger.Error().Err(err).Msg("update product failed")
			writeError(w, http.StatusInternalServerError, "could not update product")
		}
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/admin/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error().Err(err).Msg("delete product failed")
		writeError(w, http.StatusInternalServerError, "could not delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
