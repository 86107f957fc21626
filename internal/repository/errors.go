package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateSlug    = errors.New("slug already in use")
	ErrDuplicateCode    = errors.New("code already in use")
	ErrOrderNumberTaken = errors.New("order number already in use")
	ErrCouponExhausted  = errors.New("coupon has no remaining uses")
)

// InsufficientStockError reports which product could not cover the ordered
// quantity during the order commit.
type InsufficientStockError struct {
	ProductID string
	Name      string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for product " + e.Name
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
