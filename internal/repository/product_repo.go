package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/baykery/storefront-service/internal/models"
)

const productColumns = `id, slug, name, description, price_pen, cost_pen, status, weekend_only,
	allergens, tags, images, stock, sku, weight_grams, category_id, featured, created_at, updated_at`

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.PricePEN,
		&p.CostPEN,
		&p.Status,
		&p.WeekendOnly,
		pq.Array(&p.Allergens),
		pq.Array(&p.Tags),
		pq.Array(&p.Images),
		&p.Stock,
		&p.SKU,
		&p.WeightGrams,
		&p.CategoryID,
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// GetByIDs returns the products matching the given ids, in no particular
// order. Missing ids are simply absent from the result.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ANY($1)`, productColumns)
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// List returns a page of products plus the unpaginated total.
func (r *ProductRepo) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}
	if f.CategorySlug != "" {
		conds = append(conds, "category_id IN (SELECT id FROM categories WHERE slug = "+arg(f.CategorySlug)+")")
	}
	if f.Featured != nil {
		conds = append(conds, "featured = "+arg(*f.Featured))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(name ILIKE "+arg(pattern)+" OR description ILIKE "+arg(pattern)+" OR "+arg(f.Search)+" = ANY(tags))")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM products" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 12
	}

	query := fmt.Sprintf(
		`SELECT %s FROM products%s ORDER BY featured DESC, created_at DESC LIMIT %s OFFSET %s`,
		productColumns, where, arg(limit), arg((page-1)*limit),
	)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products
		(id, slug, name, description, price_pen, cost_pen, status, weekend_only,
		 allergens, tags, images, stock, sku, weight_grams, category_id, featured, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW(),NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.PricePEN, p.CostPEN, p.Status, p.WeekendOnly,
		pq.Array(p.Allergens), pq.Array(p.Tags), pq.Array(p.Images),
		p.Stock, p.SKU, p.WeightGrams, p.CategoryID, p.Featured,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products SET
			slug = $2, name = $3, description = $4, price_pen = $5, cost_pen = $6,
			status = $7, weekend_only = $8, allergens = $9, tags = $10, images = $11,
			stock = $12, sku = $13, weight_grams = $14, category_id = $15, featured = $16,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.PricePEN, p.CostPEN, p.Status, p.WeekendOnly,
		pq.Array(p.Allergens), pq.Array(p.Tags), pq.Array(p.Images),
		p.Stock, p.SKU, p.WeightGrams, p.CategoryID, p.Featured,
	)
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

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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
