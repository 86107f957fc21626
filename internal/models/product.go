package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductDraft     ProductStatus = "DRAFT"
	ProductPublished ProductStatus = "PUBLISHED"
	ProductArchived  ProductStatus = "ARCHIVED"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductDraft, ProductPublished, ProductArchived:
		return true
	}
	return false
}

type Product struct {
	ID          string           `json:"id"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	PricePEN    decimal.Decimal  `json:"pricePEN"`
	CostPEN     *decimal.Decimal `json:"costPEN,omitempty"`
	Status      ProductStatus    `json:"status"`
	WeekendOnly bool             `json:"weekendOnly"`
	Allergens   []string         `json:"allergens"`
	Tags        []string         `json:"tags"`
	Images      []string         `json:"images"`
	Stock       int              `json:"stock"`
	SKU         string           `json:"sku,omitempty"`
	WeightGrams *int             `json:"weight,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Featured    bool             `json:"featured"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	CategorySlug string
	Search       string
	Status       ProductStatus
	Featured     *bool
	Page         int
	Limit        int
}
