package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baykery/storefront-service/internal/models"
)

const orderColumns = `id, order_number, email, name, phone, address, district, notes,
	delivery_date, delivery_window, zone_id, subtotal_pen, delivery_fee_pen, discount_pen,
	tip_pen, total_pen, coupon_code, status, payment_status, payment_provider, created_at`

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CountActiveForWindow counts non-cancelled, non-refunded orders booked for
// the given delivery date and window. Used for the capacity check.
func (r *OrderRepo) CountActiveForWindow(ctx context.Context, date time.Time, window models.DeliveryWindow) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE delivery_date = $1 AND delivery_window = $2
		  AND status NOT IN ('CANCELLED', 'REFUNDED')
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, date, window).Scan(&count)
	return count, err
}

// CreateOrder persists the order, its item snapshots, the stock decrements
// and the coupon-use increment in one transaction. Either every write lands
// or none do.
//
// Stock is decremented conditionally (stock >= quantity) so two checkouts
// racing past the service-level stock check cannot drive stock negative; the
// loser gets InsufficientStockError. The coupon increment is guarded the same
// way against its max-use cap. A duplicate order number surfaces as
// ErrOrderNumberTaken so the caller can regenerate and retry.
func (r *OrderRepo) CreateOrder(ctx context.Context, order *models.Order, applyCoupon bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	decrement := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`
	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx, decrement, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &InsufficientStockError{ProductID: item.ProductID, Name: item.NameSnapshot}
		}
	}

	if applyCoupon && order.CouponCode != "" {
		increment := `
			UPDATE coupons
			SET uses = uses + 1
			WHERE code = $1 AND (max_uses IS NULL OR uses < max_uses)
		`
		res, err := tx.ExecContext(ctx, increment, strings.ToUpper(order.CouponCode))
		if err != nil {
			return fmt.Errorf("increment coupon uses: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCouponExhausted
		}
	}

	insertOrder := `
		INSERT INTO orders
		(id, order_number, email, name, phone, address, district, notes,
		 delivery_date, delivery_window, zone_id, subtotal_pen, delivery_fee_pen,
		 discount_pen, tip_pen, total_pen, coupon_code, status, payment_status,
		 payment_provider, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,NOW())
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, insertOrder,
		order.ID, order.OrderNumber, order.Email, order.Name, order.Phone,
		order.Address, order.District, order.Notes,
		order.DeliveryDate, order.DeliveryWindow, order.ZoneID,
		order.SubtotalPEN, order.DeliveryFeePEN, order.DiscountPEN, order.TipPEN, order.TotalPEN,
		order.CouponCode, order.Status, order.PaymentStatus, order.PaymentProvider,
	).Scan(&order.CreatedAt)
	if isUniqueViolation(err) {
		return ErrOrderNumberTaken
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (order_id, product_id, name_snapshot, price_snapshot_pen, quantity)
		VALUES ($1,$2,$3,$4,$5)
	`
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		item := order.Items[i]
		if _, err := tx.ExecContext(ctx, insertItem,
			item.OrderID, item.ProductID, item.NameSnapshot, item.PriceSnapshotPEN, item.Quantity,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit: %w", err)
	}
	committed = true
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns a page of orders plus the unpaginated total, newest first.
func (r *OrderRepo) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}
	if f.DeliveryDate != nil {
		conds = append(conds, "delivery_date = "+arg(*f.DeliveryDate))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}

	query := fmt.Sprintf(
		`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		orderColumns, where, arg(limit), arg((page-1)*limit),
	)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// UpdateStatus patches the fulfillment and/or payment status. Nil means
// "leave unchanged".
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status *models.OrderStatus, payment *models.PaymentStatus) (*models.Order, error) {
	var sets []string
	var args []interface{}
	args = append(args, id)

	if status != nil {
		args = append(args, string(*status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if payment != nil {
		args = append(args, string(*payment))
		sets = append(sets, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $1`, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Email, &o.Name, &o.Phone, &o.Address, &o.District, &o.Notes,
		&o.DeliveryDate, &o.DeliveryWindow, &o.ZoneID,
		&o.SubtotalPEN, &o.DeliveryFeePEN, &o.DiscountPEN, &o.TipPEN, &o.TotalPEN,
		&o.CouponCode, &o.Status, &o.PaymentStatus, &o.PaymentProvider, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, o *models.Order) error {
	query := `
		SELECT order_id, product_id, name_snapshot, price_snapshot_pen, quantity
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.NameSnapshot, &item.PriceSnapshotPEN, &item.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}
