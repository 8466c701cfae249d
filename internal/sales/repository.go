package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelink-app/tradelink/internal/platform/db"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// TxRepository exposes the operations available inside a sale transaction.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, productID int64) (ProductSnapshot, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) error
	InsertSale(ctx context.Context, sale Sale) (Sale, error)
}

// Repository defines persistence operations for the sale ledger.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListByPartner(ctx context.Context, partnerID int64) ([]SaleWithDetails, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes fn inside a ReadCommitted transaction; every step of a
// sale commits or rolls back together, and a FOR UPDATE that waited on a
// concurrent sale of the same product sees the decremented stock.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// GetProductForUpdate reads the product row under a write lock, serialising
// concurrent sales of the same product.
func (r *txRepository) GetProductForUpdate(ctx context.Context, productID int64) (ProductSnapshot, error) {
	var p ProductSnapshot
	err := r.tx.QueryRow(ctx, `
		SELECT id, unit_price, COALESCE(commission_pct,0), stock
		FROM products WHERE id = $1 FOR UPDATE`, productID).
		Scan(&p.ID, &p.UnitPrice, &p.CommissionPct, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductSnapshot{}, fmt.Errorf("%w: product", httpx.ErrNotFound)
		}
		return ProductSnapshot{}, fmt.Errorf("sales: lock product: %w", err)
	}
	return p, nil
}

// DecrementStock reduces the locked product's stock.
func (r *txRepository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	_, err := r.tx.Exec(ctx, `UPDATE products SET stock = stock - $1 WHERE id = $2`, quantity, productID)
	if err != nil {
		return fmt.Errorf("sales: decrement stock: %w", err)
	}
	return nil
}

// InsertSale appends the immutable ledger row.
func (r *txRepository) InsertSale(ctx context.Context, sale Sale) (Sale, error) {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO sales (partner_id, product_id, quantity, total_price, total_commission)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, sold_at`,
		sale.PartnerID, sale.ProductID, sale.Quantity, sale.TotalPrice, sale.TotalCommission).
		Scan(&sale.ID, &sale.SoldAt)
	if err != nil {
		return Sale{}, fmt.Errorf("sales: insert sale: %w", err)
	}
	return sale, nil
}

// ListByPartner returns the partner's sale history, most recent first.
func (r *PGRepository) ListByPartner(ctx context.Context, partnerID int64) ([]SaleWithDetails, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.partner_id, s.product_id, s.quantity, s.total_price, s.total_commission, s.sold_at,
		       p.name, c.name
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN companies c ON p.company_id = c.id
		WHERE s.partner_id = $1
		ORDER BY s.sold_at DESC`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("sales: list sales: %w", err)
	}
	defer rows.Close()

	salesList := []SaleWithDetails{}
	for rows.Next() {
		var s SaleWithDetails
		err := rows.Scan(&s.ID, &s.PartnerID, &s.ProductID, &s.Quantity, &s.TotalPrice, &s.TotalCommission, &s.SoldAt, &s.ProductName, &s.CompanyName)
		if err != nil {
			return nil, fmt.Errorf("sales: scan sale: %w", err)
		}
		salesList = append(salesList, s)
	}
	return salesList, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
