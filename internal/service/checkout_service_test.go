package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/internal/repository"
)

type fakeProducts struct {
	products []models.Product
	err      error
}

func (f *fakeProducts) GetByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Product
	for _, p := range f.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeZones struct {
	zone *models.DeliveryZone
	err  error
}

func (f *fakeZones) GetByID(_ context.Context, _ string) (*models.DeliveryZone, error) {
	return f.zone, f.err
}

type fakeCoupons struct {
	coupon *models.Coupon
	err    error
}

func (f *fakeCoupons) GetByCode(_ context.Context, _ string) (*models.Coupon, error) {
	return f.coupon, f.err
}

type fakeOrders struct {
	booked   int
	countErr error

	createErrs []error
	created    []models.Order
	applied    []bool
}

func (f *fakeOrders) CountActiveForWindow(_ context.Context, _ time.Time, _ models.DeliveryWindow) (int, error) {
	return f.booked, f.countErr
}

func (f *fakeOrders) CreateOrder(_ context.Context, order *models.Order, applyCoupon bool) error {
	f.created = append(f.created, *order)
	f.applied = append(f.applied, applyCoupon)
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	return nil
}

// Wednesday; the nearest Saturday is June 7th.
var fixedNow = time.Date(2025, time.June, 4, 10, 30, 0, 0, time.UTC)

var (
	saturday = time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)
)

func pen(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func catalog() []models.Product {
	return []models.Product{
		{ID: "p-brownie", Name: "Caja de brownies", PricePEN: pen("18.00"), Status: models.ProductPublished, Stock: 10},
		{ID: "p-alfajor", Name: "Alfajores", PricePEN: pen("8.00"), Status: models.ProductPublished, Stock: 5},
	}
}

func checkoutFixture() (*CheckoutService, *fakeOrders, *fakeCoupons) {
	orders := &fakeOrders{}
	coupons := &fakeCoupons{}
	svc := NewCheckoutService(
		&fakeProducts{products: catalog()},
		&fakeZones{zone: &models.DeliveryZone{ID: "z-miraflores", Name: "Miraflores", FeePEN: pen("10.00"), Active: true}},
		coupons,
		orders,
		50,
	)
	svc.now = func() time.Time { return fixedNow }
	return svc, orders, coupons
}

func validInput() CheckoutInput {
	return CheckoutInput{
		Email:          "ana@example.com",
		Name:           "Ana Torres",
		Phone:          "987654321",
		Address:        "Av. Larco 123",
		District:       "Miraflores",
		DeliveryDate:   saturday,
		DeliveryWindow: models.WindowMorning,
		ZoneID:         "z-miraflores",
		Items: []CheckoutItem{
			{ProductID: "p-brownie", Quantity: 2},
			{ProductID: "p-alfajor", Quantity: 1},
		},
		TipPEN: decimal.Zero,
	}
}

func TestCheckoutComputesTotals(t *testing.T) {
	svc, orders, _ := checkoutFixture()

	order, err := svc.Checkout(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, order.SubtotalPEN.Equal(pen("44.00")), "subtotal %s", order.SubtotalPEN)
	assert.True(t, order.DeliveryFeePEN.Equal(pen("10.00")))
	assert.True(t, order.DiscountPEN.IsZero())
	assert.True(t, order.TotalPEN.Equal(pen("54.00")), "total %s", order.TotalPEN)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "CULQI", order.PaymentProvider)
	assert.Regexp(t, `^ORD-[0-9A-Z]+-[0-9A-Z]{3}$`, order.OrderNumber)
	assert.True(t, order.DeliveryDate.Equal(saturday))

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Caja de brownies", order.Items[0].NameSnapshot)
	assert.True(t, order.Items[0].PriceSnapshotPEN.Equal(pen("18.00")))
	assert.Equal(t, 2, order.Items[0].Quantity)

	require.Len(t, orders.created, 1)
	assert.False(t, orders.applied[0])
}

func TestCheckoutTotalIncludesTip(t *testing.T) {
	svc, _, _ := checkoutFixture()

	in := validInput()
	in.TipPEN = pen("5.00")

	order, err := svc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, order.TotalPEN.Equal(pen("59.00")), "total %s", order.TotalPEN)
}

func TestCheckoutRejectsWeekdayDelivery(t *testing.T) {
	svc, orders, _ := checkoutFixture()

	in := validInput()
	in.DeliveryDate = time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC) // Friday

	_, err := svc.Checkout(context.Background(), in)
	assert.ErrorIs(t, err, ErrDeliveryDateNotWeekend)
	assert.Empty(t, orders.created)
}

func TestCheckoutRejectsSameDayDelivery(t *testing.T) {
	svc, _, _ := checkoutFixture()
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 7, 6, 0, 0, 0, time.UTC) // Saturday morning
	}

	in := validInput()
	in.DeliveryDate = saturday

	_, err := svc.Checkout(context.Background(), in)
	assert.ErrorIs(t, err, ErrDeliveryDateNotFuture)
}

func TestCheckoutAcceptsTomorrowWeekend(t *testing.T) {
	svc, _, _ := checkoutFixture()
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 7, 23, 0, 0, 0, time.UTC) // Saturday night
	}

	in := validInput()
	in.DeliveryDate = sunday

	_, err := svc.Checkout(context.Background(), in)
	assert.NoError(t, err)
}

func TestCheckoutRejectsFullWindow(t *testing.T) {
	svc, orders, _ := checkoutFixture()
	orders.booked = 50

	_, err := svc.Checkout(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrWindowFull)
}

func TestCheckoutRejectsUnknownProduct(t *testing.T) {
	svc, _, _ := checkoutFixture()

	in := validInput()
	in.Items = append(in.Items, CheckoutItem{ProductID: "p-ghost", Quantity: 1})

	_, err := svc.Checkout(context.Background(), in)
	assert.ErrorIs(t, err, ErrProductsUnavailable)
}

func TestCheckoutRejectsUnpublishedProduct(t *testing.T) {
	orders := &fakeOrders{}
	svc := NewCheckoutService(
		&fakeProducts{products: []models.Product{
			{ID: "p-draft", Name: "Torta en pruebas", PricePEN: pen("30.00"), Status: models.ProductDraft, Stock: 10},
		}},
		&fakeZones{zone: &models.DeliveryZone{ID: "z-miraflores", FeePEN: pen("10.00"), Active: true}},
		&fakeCoupons{},
		orders,
		50,
	)
	svc.now = func() time.Time { return fixedNow }

	in := validInput()
	in.Items = []CheckoutItem{{ProductID: "p-draft", Quantity: 1}}

	_, err := svc.Checkout(context.Background(), in)
	assert.ErrorIs(t, err, ErrProductsUnavailable)
	assert.ErrorContains(t, err, "Torta en pruebas")
	assert.Empty(t, orders.created)
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	svc, orders, _ := checkoutFixture()

	in := validInput()
	in.Items = []CheckoutItem{{ProductID: "p-alfajor", Quantity: 6}} // stock is 5

	_, err := svc.Checkout(context.Background(), in)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, orders.created, "nothing may be written when stock is short")
}

func TestCheckoutRejectsInactiveZone(t *testing.T) {
	orders := &fakeOrders{}
	svc := NewCheckoutService(
		&fakeProducts{products: catalog()},
		&fakeZones{zone: &models.DeliveryZone{ID: "z-callao", FeePEN: pen("15.00"), Active: false}},
		&fakeCoupons{},
		orders,
		50,
	)
	svc.now = func() time.Time { return fixedNow }

	_, err := svc.Checkout(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrInvalidZone)
}

func TestCheckoutAppliesPercentageCoupon(t *testing.T) {
	svc, orders, coupons := checkoutFixture()
	min := pen("30.00")
	maxDiscount := pen("15.00")
	coupons.coupon = &models.Coupon{
		Code:           "WELCOME10",
		Type:           models.CouponPercentage,
		Value:          pen("10"),
		MinSubtotalPEN: &min,
		MaxDiscountPEN: &maxDiscount,
		Active:         true,
	}

	in := validInput()
	in.CouponCode = "welcome10"

	order, err := svc.Checkout(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, order.DiscountPEN.Equal(pen("4.40")), "discount %s", order.DiscountPEN)
	assert.True(t, order.TotalPEN.Equal(pen("49.60")), "total %s", order.TotalPEN)
	assert.Equal(t, "WELCOME10", order.CouponCode)
	require.Len(t, orders.applied, 1)
	assert.True(t, orders.applied[0])
}

func TestCheckoutClampsDiscountToCap(t *testing.T) {
	svc, _, coupons := checkoutFixture()
	maxDiscount := pen("3.00")
	coupons.coupon = &models.Coupon{
		Code:           "WELCOME10",
		Type:           models.CouponPercentage,
		Value:          pen("10"),
		MaxDiscountPEN: &maxDiscount,
		Active:         true,
	}

	in := validInput()
	in.CouponCode = "WELCOME10"

	order, err := svc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, order.DiscountPEN.Equal(pen("3.00")))
	assert.True(t, order.TotalPEN.Equal(pen("51.00")))
}

func TestCheckoutIgnoresCouponBelowMinimum(t *testing.T) {
	svc, orders, coupons := checkoutFixture()
	min := pen("100.00")
	coupons.coupon = &models.Coupon{
		Code:           "BIGSPEND",
		Type:           models.CouponFixed,
		Value:          pen("20.00"),
		MinSubtotalPEN: &min,
		Active:         true,
	}

	in := validInput()
	in.CouponCode = "BIGSPEND"

	order, err := svc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, order.DiscountPEN.IsZero(), "inapplicable coupon must not fail checkout")
	assert.True(t, order.TotalPEN.Equal(pen("54.00")))
	assert.False(t, orders.applied[0])
}

func TestCheckoutIgnoresUnknownCoupon(t *testing.T) {
	svc, _, _ := checkoutFixture()

	in := validInput()
	in.CouponCode = "NOSUCHCODE"

	order, err := svc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, order.DiscountPEN.IsZero())
}

func TestCheckoutRetriesOrderNumberCollision(t *testing.T) {
	svc, orders, _ := checkoutFixture()
	orders.createErrs = []error{repository.ErrOrderNumberTaken, repository.ErrOrderNumberTaken}

	order, err := svc.Checkout(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, orders.created, 3)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestCheckoutGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, orders, _ := checkoutFixture()
	orders.createErrs = []error{
		repository.ErrOrderNumberTaken,
		repository.ErrOrderNumberTaken,
		repository.ErrOrderNumberTaken,
	}

	_, err := svc.Checkout(context.Background(), validInput())
	assert.ErrorIs(t, err, repository.ErrOrderNumberTaken)
	assert.Len(t, orders.created, 3)
}

func TestCheckoutDowngradesExhaustedCoupon(t *testing.T) {
	svc, orders, coupons := checkoutFixture()
	coupons.coupon = &models.Coupon{
		Code:   "WELCOME10",
		Type:   models.CouponPercentage,
		Value:  pen("10"),
		Active: true,
	}
	orders.createErrs = []error{repository.ErrCouponExhausted}

	in := validInput()
	in.CouponCode = "WELCOME10"

	order, err := svc.Checkout(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, order.DiscountPEN.IsZero(), "exhausted coupon degrades to no discount")
	assert.True(t, order.TotalPEN.Equal(pen("54.00")), "total %s", order.TotalPEN)
	require.Len(t, orders.applied, 2)
	assert.True(t, orders.applied[0])
	assert.False(t, orders.applied[1])
}

func TestCheckoutMapsCommitStockError(t *testing.T) {
	svc, orders, _ := checkoutFixture()
	orders.createErrs = []error{
		&repository.InsufficientStockError{ProductID: "p-alfajor", Name: "Alfajores"},
	}

	_, err := svc.Checkout(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorContains(t, err, "Alfajores")
}
