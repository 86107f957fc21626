package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryZone is a named area with a flat per-order delivery fee.
type DeliveryZone struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	FeePEN      decimal.Decimal `json:"feePEN"`
	Active      bool            `json:"active"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
}
