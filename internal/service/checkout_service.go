package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/repository"
)

const defaultPaymentProvider = "CULQI"

// orderNumberAttempts bounds the regenerate-and-retry loop when a generated
// order number collides with an existing one.
const orderNumberAttempts = 3

// Stores required by checkout (interfaces to allow fakes in tests).

type ProductReader interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

type ZoneReader interface {
	GetByID(ctx context.Context, id string) (*models.DeliveryZone, error)
}

type CouponReader interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type OrderStore interface {
	CountActiveForWindow(ctx context.Context, date time.Time, window models.DeliveryWindow) (int, error)
	CreateOrder(ctx context.Context, order *models.Order, applyCoupon bool) error
}

type CheckoutService struct {
	products ProductReader
	zones    ZoneReader
	coupons  CouponReader
	orders   OrderStore

	maxOrdersPerWindow int
	now                func() time.Time
}

func NewCheckoutService(products ProductReader, zones ZoneReader, coupons CouponReader, orders OrderStore, maxOrdersPerWindow int) *CheckoutService {
	return &CheckoutService{
		products:           products,
		zones:              zones,
		coupons:            coupons,
		orders:             orders,
		maxOrdersPerWindow: maxOrdersPerWindow,
		now:                time.Now,
	}
}

type CheckoutItem struct {
	ProductID string
	Quantity  int
}

type CheckoutInput struct {
	Email          string
	Name           string
	Phone          string
	Address        string
	District       string
	Notes          string
	DeliveryDate   time.Time
	DeliveryWindow models.DeliveryWindow
	ZoneID         string
	Items          []CheckoutItem
	CouponCode     string
	TipPEN         decimal.Decimal
}

// Checkout turns a validated cart plus delivery selection into a priced,
// persisted order. Checks run in a fixed sequence and the first failure
// wins; nothing is written until every check passes, and the final commit is
// a single transaction.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	now := s.now()
	date := truncateToDate(in.DeliveryDate)

	// 1) weekend-only delivery
	if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
		return nil, ErrDeliveryDateNotWeekend
	}

	// 2) strictly in the future (tomorrow at the earliest)
	tomorrow := truncateToDate(now).AddDate(0, 0, 1)
	if date.Before(tomorrow) {
		return nil, ErrDeliveryDateNotFuture
	}

	// 3) capacity for the (date, window) slot
	booked, err := s.orders.CountActiveForWindow(ctx, date, in.DeliveryWindow)
	if err != nil {
		return nil, fmt.Errorf("count window orders: %w", err)
	}
	if booked >= s.maxOrdersPerWindow {
		return nil, ErrWindowFull
	}

	// 4) every product must exist and be published
	ids := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var unavailable []string
	for _, item := range in.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			unavailable = append(unavailable, item.ProductID)
			continue
		}
		if p.Status != models.ProductPublished {
			unavailable = append(unavailable, p.Name)
		}
	}
	if len(unavailable) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductsUnavailable, strings.Join(unavailable, ", "))
	}

	// 5) stock covers every requested quantity
	for _, item := range in.Items {
		p := byID[item.ProductID]
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, p.Name)
		}
	}

	// 6) delivery zone exists and is active
	zone, err := s.zones.GetByID(ctx, in.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("load zone: %w", err)
	}
	if zone == nil || !zone.Active {
		return nil, ErrInvalidZone
	}

	// pricing: DB prices only, never client-supplied
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		p := byID[item.ProductID]
		subtotal = subtotal.Add(p.PricePEN.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, models.OrderItem{
			ProductID:        p.ID,
			NameSnapshot:     p.Name,
			PriceSnapshotPEN: p.PricePEN,
			Quantity:         item.Quantity,
		})
	}

	// 7) optional coupon; an inapplicable coupon degrades to zero discount
	discount := decimal.Zero
	couponApplied := false
	couponCode := strings.ToUpper(strings.TrimSpace(in.CouponCode))
	if couponCode != "" {
		coupon, err := s.coupons.GetByCode(ctx, couponCode)
		if err != nil {
			return nil, fmt.Errorf("load coupon: %w", err)
		}
		if coupon != nil && coupon.AppliesAt(now, subtotal) {
			discount = coupon.DiscountFor(subtotal)
			couponApplied = discount.GreaterThan(decimal.Zero)
		}
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		Email:           in.Email,
		Name:            in.Name,
		Phone:           in.Phone,
		Address:         in.Address,
		District:        in.District,
		Notes:           in.Notes,
		DeliveryDate:    date,
		DeliveryWindow:  in.DeliveryWindow,
		ZoneID:          zone.ID,
		SubtotalPEN:     subtotal,
		DeliveryFeePEN:  zone.FeePEN,
		DiscountPEN:     discount,
		TipPEN:          in.TipPEN,
		CouponCode:      couponCode,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		PaymentProvider: defaultPaymentProvider,
		Items:           items,
	}
	order.TotalPEN = subtotal.Add(zone.FeePEN).Sub(discount).Add(in.TipPEN)

	return s.commit(ctx, order, couponApplied)
}

// commit persists the order, regenerating the order number on a collision
// and downgrading the coupon to no-discount if it was exhausted between the
// applicability check and the transaction.
func (s *CheckoutService) commit(ctx context.Context, order *models.Order, applyCoupon bool) (*models.Order, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = GenerateOrderNumber(s.now())

		err := s.orders.CreateOrder(ctx, order, applyCoupon)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, repository.ErrOrderNumberTaken) {
			continue
		}
		if errors.Is(err, repository.ErrCouponExhausted) && applyCoupon {
			order.TotalPEN = order.TotalPEN.Add(order.DiscountPEN)
			order.DiscountPEN = decimal.Zero
			applyCoupon = false
			attempt--
			continue
		}
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, stockErr.Name)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return nil, fmt.Errorf("create order: %w", repository.ErrOrderNumberTaken)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
