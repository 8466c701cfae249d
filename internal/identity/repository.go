package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Repository defines persistence operations for directories, stats and
// profiles.
type Repository interface {
	ListCompanies(ctx context.Context) ([]auth.Company, error)
	ListPartnersForCompany(ctx context.Context, companyID int64) ([]PartnerSales, error)

	CommissionSince(ctx context.Context, partnerID int64, since time.Time) (float64, error)
	LifetimeCommission(ctx context.Context, partnerID int64) (float64, error)
	SaleCount(ctx context.Context, partnerID int64) (int64, error)
	CompanyCount(ctx context.Context, partnerID int64) (int64, error)

	UpdateCompanyProfile(ctx context.Context, c auth.Company) (auth.Company, error)
	UpdatePartnerProfile(ctx context.Context, p auth.Partner) (auth.Partner, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ListCompanies returns the public company directory, alphabetically.
func (r *PGRepository) ListCompanies(ctx context.Context) ([]auth.Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(tax_id,''), COALESCE(address,''), COALESCE(phone,''),
		       email, COALESCE(description,''), COALESCE(logo_url,'')
		FROM companies
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("identity: list companies: %w", err)
	}
	defer rows.Close()

	companies := []auth.Company{}
	for rows.Next() {
		var c auth.Company
		err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.Description, &c.LogoURL)
		if err != nil {
			return nil, fmt.Errorf("identity: scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ListPartnersForCompany returns partners who sold the company's products,
// with units and commission aggregates, best sellers first.
func (r *PGRepository) ListPartnersForCompany(ctx context.Context, companyID int64) ([]PartnerSales, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pt.id, pt.first_name, pt.last_name, pt.email, pt.phone,
		       COALESCE(SUM(s.quantity), 0), COALESCE(SUM(s.total_commission), 0)
		FROM partners pt
		JOIN sales s ON s.partner_id = pt.id
		JOIN products pr ON s.product_id = pr.id
		WHERE pr.company_id = $1
		GROUP BY pt.id, pt.first_name, pt.last_name, pt.email, pt.phone
		ORDER BY SUM(s.total_commission) DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("identity: list partners: %w", err)
	}
	defer rows.Close()

	partners := []PartnerSales{}
	for rows.Next() {
		var p PartnerSales
		err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.UnitsSold, &p.TotalCommission)
		if err != nil {
			return nil, fmt.Errorf("identity: scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

// CommissionSince sums the partner's commission on sales at or after the
// given instant.
func (r *PGRepository) CommissionSince(ctx context.Context, partnerID int64, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_commission), 0) FROM sales
		WHERE partner_id = $1 AND sold_at >= $2`, partnerID, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("identity: commission since: %w", err)
	}
	return total, nil
}

// LifetimeCommission sums the partner's commission across all sales.
func (r *PGRepository) LifetimeCommission(ctx context.Context, partnerID int64) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_commission), 0) FROM sales WHERE partner_id = $1`, partnerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("identity: lifetime commission: %w", err)
	}
	return total, nil
}

// SaleCount counts the partner's sales.
func (r *PGRepository) SaleCount(ctx context.Context, partnerID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM sales WHERE partner_id = $1`, partnerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("identity: sale count: %w", err)
	}
	return count, nil
}

// CompanyCount counts the distinct companies the partner has sold for.
func (r *PGRepository) CompanyCount(ctx context.Context, partnerID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT pr.company_id)
		FROM sales s JOIN products pr ON s.product_id = pr.id
		WHERE s.partner_id = $1`, partnerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("identity: company count: %w", err)
	}
	return count, nil
}

// UpdateCompanyProfile rewrites the company's mutable profile fields.
func (r *PGRepository) UpdateCompanyProfile(ctx context.Context, c auth.Company) (auth.Company, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE companies
		SET name=$1, tax_id=$2, address=$3, phone=$4, email=$5, description=$6, logo_url=$7
		WHERE id=$8
		RETURNING id, name, COALESCE(tax_id,''), COALESCE(address,''), COALESCE(phone,''),
		          email, COALESCE(description,''), COALESCE(logo_url,'')`,
		c.Name, c.TaxID, c.Address, c.Phone, c.Email, c.Description, c.LogoURL, c.ID)
	var updated auth.Company
	err := row.Scan(&updated.ID, &updated.Name, &updated.TaxID, &updated.Address, &updated.Phone, &updated.Email, &updated.Description, &updated.LogoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Company{}, fmt.Errorf("%w: company", httpx.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return auth.Company{}, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
		}
		return auth.Company{}, fmt.Errorf("identity: update company: %w", err)
	}
	return updated, nil
}

// UpdatePartnerProfile rewrites the partner's mutable profile fields.
func (r *PGRepository) UpdatePartnerProfile(ctx context.Context, p auth.Partner) (auth.Partner, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE partners
		SET first_name=$1, last_name=$2, national_id=$3, phone=$4, email=$5, address=$6, experience=$7
		WHERE id=$8
		RETURNING id, first_name, last_name, national_id, phone, email,
		          COALESCE(address,''), COALESCE(experience,''), registered_at`,
		p.FirstName, p.LastName, p.NationalID, p.Phone, p.Email, p.Address, p.Experience, p.ID)
	var updated auth.Partner
	err := row.Scan(&updated.ID, &updated.FirstName, &updated.LastName, &updated.NationalID, &updated.Phone, &updated.Email, &updated.Address, &updated.Experience, &updated.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Partner{}, fmt.Errorf("%w: partner", httpx.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return auth.Partner{}, fmt.Errorf("%w: email or national id already registered", httpx.ErrDuplicate)
		}
		return auth.Partner{}, fmt.Errorf("identity: update partner: %w", err)
	}
	return updated, nil
}

var _ Repository = (*PGRepository)(nil)
