package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryWindow string

const (
	WindowMorning   DeliveryWindow = "MORNING"
	WindowAfternoon DeliveryWindow = "AFTERNOON"
)

func (w DeliveryWindow) Valid() bool {
	return w == WindowMorning || w == WindowAfternoon
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderRefunded  OrderStatus = "REFUNDED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	District        string          `json:"district"`
	Notes           string          `json:"notes,omitempty"`
	DeliveryDate    time.Time       `json:"deliveryDate"`
	DeliveryWindow  DeliveryWindow  `json:"deliveryWindow"`
	ZoneID          string          `json:"zoneId"`
	SubtotalPEN     decimal.Decimal `json:"subtotalPEN"`
	DeliveryFeePEN  decimal.Decimal `json:"deliveryFeePEN"`
	DiscountPEN     decimal.Decimal `json:"discountPEN"`
	TipPEN          decimal.Decimal `json:"tipPEN"`
	TotalPEN        decimal.Decimal `json:"totalPEN"`
	CouponCode      string          `json:"couponCode,omitempty"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentProvider string          `json:"paymentProvider"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderItem captures the product name and price at order time so later
// catalog edits do not rewrite order history.
type OrderItem struct {
	OrderID          string          `json:"-"`
	ProductID        string          `json:"productId"`
	NameSnapshot     string          `json:"nameSnapshot"`
	PriceSnapshotPEN decimal.Decimal `json:"priceSnapshotPEN"`
	Quantity         int             `json:"quantity"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status       OrderStatus
	DeliveryDate *time.Time
	Page         int
	Limit        int
}
