package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baykery/storefront-service/internal/models"
)

const couponColumns = `id, code, type, value, min_subtotal_pen, max_discount_pen,
	starts_at, ends_at, max_uses, uses, active, created_at`

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

func scanCoupon(row interface{ Scan(...interface{}) error }) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Type,
		&c.Value,
		&c.MinSubtotalPEN,
		&c.MaxDiscountPEN,
		&c.StartsAt,
		&c.EndsAt,
		&c.MaxUses,
		&c.Uses,
		&c.Active,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByCode looks a coupon up case-insensitively; codes are stored uppercase.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, strings.ToUpper(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CouponRepo) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CouponRepo) List(ctx context.Context) ([]models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(c.Code)
	query := `
		INSERT INTO coupons
		(id, code, type, value, min_subtotal_pen, max_discount_pen, starts_at, ends_at, max_uses, uses, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,0,$10,NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Code, c.Type, c.Value, c.MinSubtotalPEN, c.MaxDiscountPEN,
		c.StartsAt, c.EndsAt, c.MaxUses, c.Active,
	).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

func (r *CouponRepo) Update(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(c.Code)
	query := `
		UPDATE coupons SET
			code = $2, type = $3, value = $4, min_subtotal_pen = $5, max_discount_pen = $6,
			starts_at = $7, ends_at = $8, max_uses = $9, active = $10
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Code, c.Type, c.Value, c.MinSubtotalPEN, c.MaxDiscountPEN,
		c.StartsAt, c.EndsAt, c.MaxUses, c.Active,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CouponRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
