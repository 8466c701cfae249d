package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Repository defines persistence operations for the credential store.
type Repository interface {
	CreateCompany(ctx context.Context, c Company, passwordHash string) (Company, error)
	CreatePartner(ctx context.Context, p Partner, passwordHash string) (Partner, error)
	FindCompanyByEmail(ctx context.Context, email string) (Company, string, error)
	FindPartnerByEmail(ctx context.Context, email string) (Partner, string, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CreateCompany inserts a seller account and returns its public projection.
func (r *PGRepository) CreateCompany(ctx context.Context, c Company, passwordHash string) (Company, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO companies (name, tax_id, address, phone, email, password_hash, description, logo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`,
		c.Name, c.TaxID, c.Address, c.Phone, c.Email, passwordHash, c.Description, c.LogoURL,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Company{}, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
		}
		return Company{}, fmt.Errorf("auth: create company: %w", err)
	}
	return c, nil
}

// CreatePartner inserts a reseller account and returns its public projection.
func (r *PGRepository) CreatePartner(ctx context.Context, p Partner, passwordHash string) (Partner, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO partners (first_name, last_name, national_id, phone, email, password_hash, address, experience)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, registered_at`,
		p.FirstName, p.LastName, p.NationalID, p.Phone, p.Email, passwordHash, p.Address, p.Experience,
	).Scan(&p.ID, &p.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Partner{}, fmt.Errorf("%w: email or national id already registered", httpx.ErrDuplicate)
		}
		return Partner{}, fmt.Errorf("auth: create partner: %w", err)
	}
	return p, nil
}

// FindCompanyByEmail fetches a company and its password hash by email.
func (r *PGRepository) FindCompanyByEmail(ctx context.Context, email string) (Company, string, error) {
	var c Company
	var hash string
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(tax_id,''), COALESCE(address,''), COALESCE(phone,''),
		       email, password_hash, COALESCE(description,''), COALESCE(logo_url,'')
		FROM companies WHERE email = $1`,
		email,
	).Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &hash, &c.Description, &c.LogoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, "", httpx.ErrNotFound
		}
		return Company{}, "", fmt.Errorf("auth: find company: %w", err)
	}
	return c, hash, nil
}

// FindPartnerByEmail fetches a partner and its password hash by email.
func (r *PGRepository) FindPartnerByEmail(ctx context.Context, email string) (Partner, string, error) {
	var p Partner
	var hash string
	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, national_id, phone, email, password_hash,
		       COALESCE(address,''), COALESCE(experience,''), registered_at
		FROM partners WHERE email = $1`,
		email,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &p.NationalID, &p.Phone, &p.Email, &hash, &p.Address, &p.Experience, &p.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Partner{}, "", httpx.ErrNotFound
		}
		return Partner{}, "", fmt.Errorf("auth: find partner: %w", err)
	}
	return p, hash, nil
}

var _ Repository = (*PGRepository)(nil)
