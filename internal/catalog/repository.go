package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, p Product) (Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id, companyID int64) error
	ListByCompany(ctx context.Context, companyID int64) ([]Product, error)
	ListAll(ctx context.Context) ([]ProductWithCompany, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const productColumns = `id, company_id, name, COALESCE(category,''), unit_price, COALESCE(commission_pct,0), stock, COALESCE(description,''), COALESCE(variant,''), created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Category, &p.UnitPrice, &p.CommissionPct, &p.Stock, &p.Description, &p.Variant, &p.CreatedAt)
	return p, err
}

// Create inserts a product owned by the company.
func (r *PGRepository) Create(ctx context.Context, p Product) (Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (company_id, name, category, unit_price, commission_pct, stock, description, variant)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+productColumns,
		p.CompanyID, p.Name, p.Category, p.UnitPrice, p.CommissionPct, p.Stock, p.Description, p.Variant)
	created, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: create product: %w", err)
	}
	return created, nil
}

// Get returns a single product by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("%w: product", httpx.ErrNotFound)
		}
		return Product{}, fmt.Errorf("catalog: get product: %w", err)
	}
	return p, nil
}

// Update rewrites a product; the company id guard enforces ownership.
func (r *PGRepository) Update(ctx context.Context, p Product) (Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name=$1, category=$2, unit_price=$3, commission_pct=$4, stock=$5, description=$6, variant=$7
		WHERE id=$8 AND company_id=$9
		RETURNING `+productColumns,
		p.Name, p.Category, p.UnitPrice, p.CommissionPct, p.Stock, p.Description, p.Variant, p.ID, p.CompanyID)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("%w: product", httpx.ErrNotFound)
		}
		return Product{}, fmt.Errorf("catalog: update product: %w", err)
	}
	return updated, nil
}

// Delete removes a product; the company id guard enforces ownership.
func (r *PGRepository) Delete(ctx context.Context, id, companyID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1 AND company_id=$2`, id, companyID)
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product", httpx.ErrNotFound)
	}
	return nil
}

// ListByCompany returns the company's products, most recent first.
func (r *PGRepository) ListByCompany(ctx context.Context, companyID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE company_id = $1
		ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListAll returns every product joined with its company name, for partners.
func (r *PGRepository) ListAll(ctx context.Context) ([]ProductWithCompany, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.company_id, p.name, COALESCE(p.category,''), p.unit_price,
		       COALESCE(p.commission_pct,0), p.stock, COALESCE(p.description,''),
		       COALESCE(p.variant,''), p.created_at, c.name
		FROM products p
		JOIN companies c ON p.company_id = c.id
		ORDER BY c.name, p.name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list all products: %w", err)
	}
	defer rows.Close()

	products := []ProductWithCompany{}
	for rows.Next() {
		var p ProductWithCompany
		err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Category, &p.UnitPrice, &p.CommissionPct, &p.Stock, &p.Description, &p.Variant, &p.CreatedAt, &p.CompanyName)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
