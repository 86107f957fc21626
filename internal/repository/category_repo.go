package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baykery/storefront-service/internal/models"
)

type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	query := `
		SELECT id, name, slug, description, display_order, active, created_at
		FROM categories
	`
	if !includeInactive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY display_order ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Order, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `
		SELECT id, name, slug, description, display_order, active, created_at
		FROM categories
		WHERE slug = $1
	`
	var c models.Category
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Order, &c.Active, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, display_order, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.Order, c.Active).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *CategoryRepo) Update(ctx context.Context, c *models.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, display_order = $5, active = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.Order, c.Active)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
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

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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
