package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baykery/storefront-service/internal/models"
)

type ZoneRepo struct {
	db *sql.DB
}

func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

func (r *ZoneRepo) List(ctx context.Context, includeInactive bool) ([]models.DeliveryZone, error) {
	query := `
		SELECT id, name, description, fee_pen, active, display_order, created_at
		FROM delivery_zones
	`
	if !includeInactive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY display_order ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []models.DeliveryZone
	for rows.Next() {
		var z models.DeliveryZone
		if err := rows.Scan(&z.ID, &z.Name, &z.Description, &z.FeePEN, &z.Active, &z.Order, &z.CreatedAt); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (r *ZoneRepo) GetByID(ctx context.Context, id string) (*models.DeliveryZone, error) {
	query := `
		SELECT id, name, description, fee_pen, active, display_order, created_at
		FROM delivery_zones
		WHERE id = $1
	`
	var z models.DeliveryZone
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&z.ID, &z.Name, &z.Description, &z.FeePEN, &z.Active, &z.Order, &z.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *ZoneRepo) Create(ctx context.Context, z *models.DeliveryZone) error {
	query := `
		INSERT INTO delivery_zones (id, name, description, fee_pen, active, display_order, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, z.ID, z.Name, z.Description, z.FeePEN, z.Active, z.Order).Scan(&z.CreatedAt)
}

func (r *ZoneRepo) Update(ctx context.Context, z *models.DeliveryZone) error {
	query := `
		UPDATE delivery_zones
		SET name = $2, description = $3, fee_pen = $4, active = $5, display_order = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, z.ID, z.Name, z.Description, z.FeePEN, z.Active, z.Order)
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

func (r *ZoneRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM delivery_zones WHERE id = $1`, id)
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
