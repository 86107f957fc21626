package service

import "errors"

// Business-rule rejections surfaced to the client with a specific message.
// Persistence failures are returned as-is and mapped to a generic server
// error at the API boundary.
var (
	ErrDeliveryDateNotWeekend = errors.New("delivery date must be a Saturday or Sunday")
	ErrDeliveryDateNotFuture  = errors.New("delivery date must be at least tomorrow")
	ErrWindowFull             = errors.New("no slots available for this date and window")
	ErrProductsUnavailable    = errors.New("some products are not available")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidZone            = errors.New("invalid delivery zone")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
