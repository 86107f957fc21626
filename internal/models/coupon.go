package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponPercentage CouponType = "PERCENTAGE"
	CouponFixed      CouponType = "FIXED"
)

func (t CouponType) Valid() bool {
	return t == CouponPercentage || t == CouponFixed
}

type Coupon struct {
	ID             string           `json:"id"`
	Code           string           `json:"code"` // stored uppercase, matched case-insensitively
	Type           CouponType       `json:"type"`
	Value          decimal.Decimal  `json:"value"`
	MinSubtotalPEN *decimal.Decimal `json:"minSubtotalPEN,omitempty"`
	MaxDiscountPEN *decimal.Decimal `json:"maxDiscountPEN,omitempty"`
	StartsAt       *time.Time       `json:"startsAt,omitempty"`
	EndsAt         *time.Time       `json:"endsAt,omitempty"`
	MaxUses        *int             `json:"maxUses,omitempty"`
	Uses           int              `json:"uses"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// AppliesAt reports whether the coupon can discount an order with the given
// subtotal at the given time. An inapplicable coupon is not an error at
// checkout; it simply yields no discount.
func (c *Coupon) AppliesAt(now time.Time, subtotal decimal.Decimal) bool {
	if !c.Active {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	if c.MaxUses != nil && c.Uses >= *c.MaxUses {
		return false
	}
	if c.MinSubtotalPEN != nil && subtotal.LessThan(*c.MinSubtotalPEN) {
		return false
	}
	return true
}

// DiscountFor computes the discount the coupon grants on the given subtotal,
// clamped to the max-discount cap (when set) and then to the subtotal itself.
func (c *Coupon) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	if c.Type == CouponPercentage {
		d = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	} else {
		d = c.Value
	}
	if c.MaxDiscountPEN != nil && d.GreaterThan(*c.MaxDiscountPEN) {
		d = *c.MaxDiscountPEN
	}
	if d.GreaterThan(subtotal) {
		d = subtotal
	}
	return d
}
