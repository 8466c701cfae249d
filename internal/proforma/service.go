package proforma

import (
	"context"
	"fmt"
	"time"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/catalog"
	"github.com/tradelink-app/tradelink/internal/clients"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// ClientDirectory resolves clients with partner ownership enforced.
type ClientDirectory interface {
	GetOwned(ctx context.Context, id, partnerID int64) (clients.Client, error)
}

// ProductDirectory resolves products across the whole catalog.
type ProductDirectory interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// Service coordinates the proforma workflow.
type Service struct {
	repo     Repository
	clients  ClientDirectory
	products ProductDirectory
	now      func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, clientDir ClientDirectory, productDir ProductDirectory) *Service {
	return &Service{repo: repo, clients: clientDir, products: productDir, now: time.Now}
}

// RequestInput carries a partner's quote request.
type RequestInput struct {
	ClientID       int64
	CompanyID      int64
	ProductID      int64
	Quantity       int
	EstimatedPrice float64
	Notes          string
	Urgency        string
}

// Request creates a proforma in the requested state. The client must belong
// to the requesting partner and the product must belong to the addressed
// company.
func (s *Service) Request(ctx context.Context, partnerID int64, in RequestInput) (Proforma, error) {
	if in.Quantity <= 0 {
		return Proforma{}, fmt.Errorf("%w: quantity must be greater than zero", httpx.ErrValidation)
	}
	if in.EstimatedPrice < 0 {
		return Proforma{}, fmt.Errorf("%w: estimated price must not be negative", httpx.ErrValidation)
	}

	if _, err := s.clients.GetOwned(ctx, in.ClientID, partnerID); err != nil {
		return Proforma{}, err
	}
	product, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return Proforma{}, err
	}
	if product.CompanyID != in.CompanyID {
		return Proforma{}, fmt.Errorf("%w: product does not belong to the addressed company", httpx.ErrValidation)
	}

	number, err := s.repo.GenerateNumber(ctx, in.CompanyID, s.now())
	if err != nil {
		return Proforma{}, err
	}

	return s.repo.Create(ctx, Proforma{
		Number:         number,
		PartnerID:      partnerID,
		ClientID:       in.ClientID,
		CompanyID:      in.CompanyID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		EstimatedPrice: in.EstimatedPrice,
		Notes:          in.Notes,
		Urgency:        in.Urgency,
	})
}

func validateQuote(q Quote) error {
	if q.UnitPrice <= 0 {
		return fmt.Errorf("%w: unit price must be greater than zero", httpx.ErrValidation)
	}
	if q.DiscountPct < 0 || q.DiscountPct > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", httpx.ErrValidation)
	}
	if q.DeliveryDays < 0 {
		return fmt.Errorf("%w: delivery days must not be negative", httpx.ErrValidation)
	}
	if q.ValidUntil != "" {
		if _, err := time.Parse("2006-01-02", q.ValidUntil); err != nil {
			return fmt.Errorf("%w: valid_until must be a YYYY-MM-DD date", httpx.ErrValidation)
		}
	}
	return nil
}

// Respond attaches the company's quote, approving a pending proforma. Only
// the addressed company can respond, and only while the proforma is still
// requested.
func (s *Service) Respond(ctx context.Context, id, companyID int64, quote Quote) (Proforma, error) {
	if err := validateQuote(quote); err != nil {
		return Proforma{}, err
	}
	return s.repo.Respond(ctx, id, companyID, quote)
}

// Reject declines a pending proforma.
func (s *Service) Reject(ctx context.Context, id, companyID int64) (Proforma, error) {
	return s.repo.Reject(ctx, id, companyID)
}

func authorize(principal auth.Principal, companyID, partnerID int64) error {
	switch principal.Role {
	case auth.RoleCompany:
		if companyID != principal.ID {
			return fmt.Errorf("%w: proforma belongs to another company", httpx.ErrForbidden)
		}
	case auth.RolePartner:
		if partnerID != principal.ID {
			return fmt.Errorf("%w: proforma belongs to another partner", httpx.ErrForbidden)
		}
	default:
		return httpx.ErrForbidden
	}
	return nil
}

// Get returns a single proforma in any state. Only the requesting partner
// and the addressed company may read it.
func (s *Service) Get(ctx context.Context, id int64, principal auth.Principal) (Proforma, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Proforma{}, err
	}
	if err := authorize(principal, p.CompanyID, p.PartnerID); err != nil {
		return Proforma{}, err
	}
	return p, nil
}

// ListForCompany returns the company's inbox.
func (s *Service) ListForCompany(ctx context.Context, companyID int64) ([]CompanyListing, error) {
	return s.repo.ListForCompany(ctx, companyID)
}

// ListForPartner returns the partner's outbox.
func (s *Service) ListForPartner(ctx context.Context, partnerID int64) ([]PartnerListing, error) {
	return s.repo.ListForPartner(ctx, partnerID)
}

// Document builds the printable quote for an approved proforma. Only the
// requesting partner and the addressed company may fetch it.
func (s *Service) Document(ctx context.Context, id int64, principal auth.Principal) (Document, error) {
	data, err := s.repo.GetDocumentData(ctx, id)
	if err != nil {
		return Document{}, err
	}

	if err := authorize(principal, data.CompanyID, data.PartnerID); err != nil {
		return Document{}, err
	}

	if data.Status != StatusApproved || data.Quote == nil {
		return Document{}, fmt.Errorf("%w: proforma has no approved quote", httpx.ErrValidation)
	}
	return BuildDocument(data), nil
}
