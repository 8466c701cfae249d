package proforma

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Repository defines persistence operations for the proforma workflow.
type Repository interface {
	GenerateNumber(ctx context.Context, companyID int64, date time.Time) (string, error)
	Create(ctx context.Context, p Proforma) (Proforma, error)
	Get(ctx context.Context, id int64) (Proforma, error)
	Respond(ctx context.Context, id, companyID int64, quote Quote) (Proforma, error)
	Reject(ctx context.Context, id, companyID int64) (Proforma, error)
	ListForCompany(ctx context.Context, companyID int64) ([]CompanyListing, error)
	ListForPartner(ctx context.Context, partnerID int64) ([]PartnerListing, error)
	GetDocumentData(ctx context.Context, id int64) (DocumentData, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const proformaColumns = `id, COALESCE(number,''), partner_id, client_id, company_id, product_id,
	quantity, estimated_price, COALESCE(notes,''), COALESCE(urgency,''), status, requested_at, quote, responded_at`

func scanProforma(row pgx.Row) (Proforma, error) {
	var p Proforma
	err := row.Scan(&p.ID, &p.Number, &p.PartnerID, &p.ClientID, &p.CompanyID, &p.ProductID,
		&p.Quantity, &p.EstimatedPrice, &p.Notes, &p.Urgency, &p.Status, &p.RequestedAt, &p.Quote, &p.RespondedAt)
	return p, err
}

// GenerateNumber allocates the next PF-YYMM-NNNN number for the company.
func (r *PGRepository) GenerateNumber(ctx context.Context, companyID int64, date time.Time) (string, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document_sequences (company_id, doc_type, period, seq)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq`,
		companyID, "PF", date.Format("200601")).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("proforma: generate number: %w", err)
	}
	return fmt.Sprintf("PF-%s-%04d", date.Format("0601"), seq), nil
}

// Create inserts a proforma in the requested state.
func (r *PGRepository) Create(ctx context.Context, p Proforma) (Proforma, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO proformas (partner_id, client_id, company_id, product_id, quantity, estimated_price, notes, urgency, status, number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+proformaColumns,
		p.PartnerID, p.ClientID, p.CompanyID, p.ProductID, p.Quantity, p.EstimatedPrice, p.Notes, p.Urgency, StatusRequested, p.Number)
	created, err := scanProforma(row)
	if err != nil {
		return Proforma{}, fmt.Errorf("proforma: create: %w", err)
	}
	return created, nil
}

// Get fetches a single proforma by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Proforma, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+proformaColumns+` FROM proformas WHERE id = $1`, id)
	p, err := scanProforma(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proforma{}, fmt.Errorf("%w: proforma", httpx.ErrNotFound)
		}
		return Proforma{}, fmt.Errorf("proforma: get: %w", err)
	}
	return p, nil
}

// Respond conditionally transitions requested -> approved, attaching the
// quote. The status guard makes concurrent respond/reject races safe: at
// most one of two racing calls matches a requested row.
func (r *PGRepository) Respond(ctx context.Context, id, companyID int64, quote Quote) (Proforma, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE proformas
		SET status = $3, quote = $4, responded_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND company_id = $2 AND status = $5
		RETURNING `+proformaColumns,
		id, companyID, StatusApproved, quote, StatusRequested)
	p, err := scanProforma(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proforma{}, fmt.Errorf("%w: no pending proforma", httpx.ErrNotFound)
		}
		return Proforma{}, fmt.Errorf("proforma: respond: %w", err)
	}
	return p, nil
}

// Reject conditionally transitions requested -> rejected.
func (r *PGRepository) Reject(ctx context.Context, id, companyID int64) (Proforma, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE proformas
		SET status = $3, responded_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND company_id = $2 AND status = $4
		RETURNING `+proformaColumns,
		id, companyID, StatusRejected, StatusRequested)
	p, err := scanProforma(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proforma{}, fmt.Errorf("%w: no pending proforma", httpx.ErrNotFound)
		}
		return Proforma{}, fmt.Errorf("proforma: reject: %w", err)
	}
	return p, nil
}

// ListForCompany returns the company's inbox, most recent first.
func (r *PGRepository) ListForCompany(ctx context.Context, companyID int64) ([]CompanyListing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pf.id, COALESCE(pf.number,''), pf.requested_at,
		       pt.first_name || ' ' || pt.last_name,
		       CASE WHEN cl.kind = 'organization' THEN cl.org_name ELSE cl.first_name || ' ' || cl.last_name END,
		       pr.name, pf.quantity, pf.estimated_price, pf.status
		FROM proformas pf
		JOIN partners pt ON pf.partner_id = pt.id
		JOIN clients cl ON pf.client_id = cl.id
		JOIN products pr ON pf.product_id = pr.id
		WHERE pf.company_id = $1
		ORDER BY pf.requested_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("proforma: list for company: %w", err)
	}
	defer rows.Close()

	listings := []CompanyListing{}
	for rows.Next() {
		var l CompanyListing
		err := rows.Scan(&l.ID, &l.Number, &l.RequestedAt, &l.PartnerName, &l.ClientName, &l.ProductName, &l.Quantity, &l.EstimatedPrice, &l.Status)
		if err != nil {
			return nil, fmt.Errorf("proforma: scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// ListForPartner returns the partner's outbox, most recent first.
func (r *PGRepository) ListForPartner(ctx context.Context, partnerID int64) ([]PartnerListing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pf.id, COALESCE(pf.number,''), pf.requested_at,
		       CASE WHEN cl.kind = 'organization' THEN cl.org_name ELSE cl.first_name || ' ' || cl.last_name END,
		       co.name, pr.name, pf.quantity, pf.estimated_price, pf.status
		FROM proformas pf
		JOIN clients cl ON pf.client_id = cl.id
		JOIN companies co ON pf.company_id = co.id
		JOIN products pr ON pf.product_id = pr.id
		WHERE pf.partner_id = $1
		ORDER BY pf.requested_at DESC`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("proforma: list for partner: %w", err)
	}
	defer rows.Close()

	listings := []PartnerListing{}
	for rows.Next() {
		var l PartnerListing
		err := rows.Scan(&l.ID, &l.Number, &l.RequestedAt, &l.ClientName, &l.CompanyName, &l.ProductName, &l.Quantity, &l.EstimatedPrice, &l.Status)
		if err != nil {
			return nil, fmt.Errorf("proforma: scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// GetDocumentData joins the company, client and product blocks required by
// the quote document.
func (r *PGRepository) GetDocumentData(ctx context.Context, id int64) (DocumentData, error) {
	var d DocumentData
	err := r.pool.QueryRow(ctx, `
		SELECT pf.id, COALESCE(pf.number,''), pf.partner_id, pf.client_id, pf.company_id, pf.product_id,
		       pf.quantity, pf.estimated_price, COALESCE(pf.notes,''), COALESCE(pf.urgency,''),
		       pf.status, pf.requested_at, pf.quote, pf.responded_at,
		       co.name, COALESCE(co.tax_id,''), COALESCE(co.address,''), COALESCE(co.phone,''), co.email, COALESCE(co.logo_url,''),
		       CASE WHEN cl.kind = 'organization' THEN cl.org_name ELSE cl.first_name || ' ' || cl.last_name END,
		       CASE WHEN cl.kind = 'organization' THEN COALESCE(cl.tax_id,'') ELSE COALESCE(cl.national_id,'') END,
		       COALESCE(cl.representative,''), COALESCE(cl.address,''), COALESCE(cl.phone,''), COALESCE(cl.email,''),
		       pr.name, COALESCE(pr.description,'')
		FROM proformas pf
		JOIN companies co ON pf.company_id = co.id
		JOIN clients cl ON pf.client_id = cl.id
		JOIN products pr ON pf.product_id = pr.id
		WHERE pf.id = $1`, id).
		Scan(&d.ID, &d.Number, &d.PartnerID, &d.ClientID, &d.CompanyID, &d.ProductID,
			&d.Quantity, &d.EstimatedPrice, &d.Notes, &d.Urgency,
			&d.Status, &d.RequestedAt, &d.Quote, &d.RespondedAt,
			&d.CompanyName, &d.CompanyTaxID, &d.CompanyAddress, &d.CompanyPhone, &d.CompanyEmail, &d.CompanyLogoURL,
			&d.ClientName, &d.ClientDocument,
			&d.ClientRepresentative, &d.ClientAddress, &d.ClientPhone, &d.ClientEmail,
			&d.ProductName, &d.ProductDescription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DocumentData{}, fmt.Errorf("%w: proforma", httpx.ErrNotFound)
		}
		return DocumentData{}, fmt.Errorf("proforma: document data: %w", err)
	}
	return d, nil
}

var _ Repository = (*PGRepository)(nil)
