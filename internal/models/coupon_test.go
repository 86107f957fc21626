package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCouponAppliesAt(t *testing.T) {
	now := time.Date(2025, time.June, 4, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)
	ten := 10

	cases := []struct {
		name     string
		coupon   Coupon
		subtotal string
		want     bool
	}{
		{"active with no constraints", Coupon{Active: true}, "44.00", true},
		{"inactive", Coupon{Active: false}, "44.00", false},
		{"not started yet", Coupon{Active: true, StartsAt: &after}, "44.00", false},
		{"already ended", Coupon{Active: true, EndsAt: &before}, "44.00", false},
		{"within window", Coupon{Active: true, StartsAt: &before, EndsAt: &after}, "44.00", true},
		{"uses exhausted", Coupon{Active: true, MaxUses: &ten, Uses: 10}, "44.00", false},
		{"uses remaining", Coupon{Active: true, MaxUses: &ten, Uses: 9}, "44.00", true},
		{"below minimum subtotal", Coupon{Active: true, MinSubtotalPEN: ptr(d("50.00"))}, "44.00", false},
		{"at minimum subtotal", Coupon{Active: true, MinSubtotalPEN: ptr(d("44.00"))}, "44.00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.coupon.AppliesAt(now, d(tc.subtotal)))
		})
	}
}

func TestCouponDiscountFor(t *testing.T) {
	cases := []struct {
		name     string
		coupon   Coupon
		subtotal string
		want     string
	}{
		{"percentage", Coupon{Type: CouponPercentage, Value: d("10")}, "44.00", "4.40"},
		{"percentage rounds to cents", Coupon{Type: CouponPercentage, Value: d("15")}, "33.33", "5.00"},
		{"fixed", Coupon{Type: CouponFixed, Value: d("5.00")}, "44.00", "5.00"},
		{"capped by max discount", Coupon{Type: CouponPercentage, Value: d("50"), MaxDiscountPEN: ptr(d("10.00"))}, "44.00", "10.00"},
		{"fixed clamped to subtotal", Coupon{Type: CouponFixed, Value: d("60.00")}, "44.00", "44.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.coupon.DiscountFor(d(tc.subtotal))
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}
