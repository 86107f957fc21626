package repository

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baykery/storefront-service/internal/models"
	"github.com/baykery/storefront-service/pkg/db"
)

// These tests need a real Postgres; point TEST_DATABASE_URL at one to run
// them. They create their own rows and never assume an empty database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := db.NewPostgresConnection(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations("../../migrations", dsn))
	return conn
}

func seedProduct(t *testing.T, conn *sql.DB, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:        uuid.NewString(),
		Slug:      "it-" + uuid.NewString(),
		Name:      "Torta de chocolate",
		PricePEN:  decimal.RequireFromString("45.00"),
		Status:    models.ProductPublished,
		Allergens: []string{"gluten"},
		Tags:      []string{"chocolate"},
		Images:    []string{},
		Stock:     stock,
	}
	require.NoError(t, NewProductRepo(conn).Create(context.Background(), p))
	return p
}

func seedZone(t *testing.T, conn *sql.DB) *models.DeliveryZone {
	t.Helper()
	z := &models.DeliveryZone{
		ID:     uuid.NewString(),
		Name:   "it-zone-" + uuid.NewString(),
		FeePEN: decimal.RequireFromString("10.00"),
		Active: true,
	}
	require.NoError(t, NewZoneRepo(conn).Create(context.Background(), z))
	return z
}

func buildOrder(p *models.Product, z *models.DeliveryZone, qty int) *models.Order {
	subtotal := p.PricePEN.Mul(decimal.NewFromInt(int64(qty)))
	return &models.Order{
		ID:              uuid.NewString(),
		OrderNumber:     "ORD-IT-" + uuid.NewString()[:8],
		Email:           "it@example.com",
		Name:            "Integration Test",
		Phone:           "999999999",
		Address:         "Av. Test 1",
		District:        "Testlandia",
		DeliveryDate:    time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC), // a Saturday
		DeliveryWindow:  models.WindowMorning,
		ZoneID:          z.ID,
		SubtotalPEN:     subtotal,
		DeliveryFeePEN:  z.FeePEN,
		DiscountPEN:     decimal.Zero,
		TipPEN:          decimal.Zero,
		TotalPEN:        subtotal.Add(z.FeePEN),
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		PaymentProvider: "CULQI",
		Items: []models.OrderItem{
			{ProductID: p.ID, NameSnapshot: p.Name, PriceSnapshotPEN: p.PricePEN, Quantity: qty},
		},
	}
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()

	product := seedProduct(t, conn, 5)
	zone := seedZone(t, conn)
	orders := NewOrderRepo(conn)

	require.NoError(t, orders.CreateOrder(ctx, buildOrder(product, zone, 2), false))

	got, err := NewProductRepo(conn).GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Stock)
}

func TestCreateOrderRejectsOversale(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()

	product := seedProduct(t, conn, 1)
	zone := seedZone(t, conn)
	orders := NewOrderRepo(conn)

	err := orders.CreateOrder(ctx, buildOrder(product, zone, 2), false)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)

	// the failed order must leave no trace
	got, err := NewProductRepo(conn).GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
}

func TestCreateOrderRejectsExhaustedCoupon(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()

	one := 1
	coupon := &models.Coupon{
		ID:      uuid.NewString(),
		Code:    "it-" + uuid.NewString()[:8],
		Type:    models.CouponFixed,
		Value:   decimal.RequireFromString("5.00"),
		MaxUses: &one,
		Uses:    0,
		Active:  true,
	}
	coupons := NewCouponRepo(conn)
	require.NoError(t, coupons.Create(ctx, coupon))

	product := seedProduct(t, conn, 10)
	zone := seedZone(t, conn)
	orders := NewOrderRepo(conn)

	first := buildOrder(product, zone, 1)
	first.CouponCode = coupon.Code
	require.NoError(t, orders.CreateOrder(ctx, first, true))

	second := buildOrder(product, zone, 1)
	second.CouponCode = coupon.Code
	err := orders.CreateOrder(ctx, second, true)
	assert.ErrorIs(t, err, ErrCouponExhausted)

	// the rolled-back order must not have consumed stock
	got, err := NewProductRepo(conn).GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Stock)
}

func TestCreateOrderRejectsDuplicateOrderNumber(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()

	product := seedProduct(t, conn, 10)
	zone := seedZone(t, conn)
	orders := NewOrderRepo(conn)

	first := buildOrder(product, zone, 1)
	require.NoError(t, orders.CreateOrder(ctx, first, false))

	second := buildOrder(product, zone, 1)
	second.OrderNumber = first.OrderNumber
	err := orders.CreateOrder(ctx, second, false)
	assert.ErrorIs(t, err, ErrOrderNumberTaken)
}

func TestCountActiveForWindowSkipsCancelled(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()

	product := seedProduct(t, conn, 10)
	zone := seedZone(t, conn)
	orders := NewOrderRepo(conn)

	// a slot far in the future so parallel runs don't interfere
	slot := time.Date(2031, time.June, 7, 0, 0, 0, 0, time.UTC)

	booked := buildOrder(product, zone, 1)
	booked.DeliveryDate = slot
	require.NoError(t, orders.CreateOrder(ctx, booked, false))

	cancelled := buildOrder(product, zone, 1)
	cancelled.DeliveryDate = slot
	require.NoError(t, orders.CreateOrder(ctx, cancelled, false))
	status := models.OrderCancelled
	_, err := orders.UpdateStatus(ctx, cancelled.ID, &status, nil)
	require.NoError(t, err)

	count, err := orders.CountActiveForWindow(ctx, slot, models.WindowMorning)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCouponCodeMatchingIsCaseInsensitive(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()

	coupons := NewCouponRepo(conn)
	code := "IT" + strings.ToUpper(uuid.NewString()[:6])
	require.NoError(t, coupons.Create(ctx, &models.Coupon{
		ID:     uuid.NewString(),
		Code:   code,
		Type:   models.CouponPercentage,
		Value:  decimal.RequireFromString("10"),
		Active: true,
	}))

	got, err := coupons.GetByCode(ctx, strings.ToLower(code))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, code, got.Code)
}
