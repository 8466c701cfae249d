package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Repository defines persistence operations for the client registry.
type Repository interface {
	Create(ctx context.Context, c Client) (Client, error)
	Get(ctx context.Context, id int64) (Client, error)
	ListByPartner(ctx context.Context, partnerID int64) ([]Client, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const clientColumns = `id, partner_id, kind, COALESCE(org_name,''), COALESCE(representative,''), COALESCE(tax_id,''),
	COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(national_id,''), COALESCE(email,''),
	COALESCE(phone,''), COALESCE(address,''), COALESCE(city,''), registered_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.PartnerID, &c.Kind, &c.OrgName, &c.Representative, &c.TaxID,
		&c.FirstName, &c.LastName, &c.NationalID, &c.Email, &c.Phone, &c.Address, &c.City, &c.RegisteredAt)
	return c, err
}

// Create inserts a client owned by the partner.
func (r *PGRepository) Create(ctx context.Context, c Client) (Client, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (partner_id, kind, org_name, representative, tax_id, first_name, last_name, national_id, email, phone, address, city)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING `+clientColumns,
		c.PartnerID, c.Kind, c.OrgName, c.Representative, c.TaxID, c.FirstName, c.LastName, c.NationalID, c.Email, c.Phone, c.Address, c.City)
	created, err := scanClient(row)
	if err != nil {
		return Client{}, fmt.Errorf("clients: create client: %w", err)
	}
	return created, nil
}

// Get fetches a single client by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Client, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, fmt.Errorf("%w: client", httpx.ErrNotFound)
		}
		return Client{}, fmt.Errorf("clients: get client: %w", err)
	}
	return c, nil
}

// ListByPartner returns the partner's clients, most recent first.
func (r *PGRepository) ListByPartner(ctx context.Context, partnerID int64) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE partner_id = $1
		ORDER BY registered_at DESC`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("clients: list clients: %w", err)
	}
	defer rows.Close()

	result := []Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("clients: scan client: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
