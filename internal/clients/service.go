package clients

import (
	"context"
	"fmt"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Service wraps client registry business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateClient(c Client) error {
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: kind must be individual or organization", httpx.ErrValidation)
	}
	switch c.Kind {
	case KindOrganization:
		if c.OrgName == "" {
			return fmt.Errorf("%w: organization name is required", httpx.ErrValidation)
		}
	case KindIndividual:
		if c.FirstName == "" || c.LastName == "" {
			return fmt.Errorf("%w: first and last name are required", httpx.ErrValidation)
		}
	}
	return nil
}

// Create adds a client to the partner's registry.
func (s *Service) Create(ctx context.Context, c Client) (Client, error) {
	if err := validateClient(c); err != nil {
		return Client{}, err
	}
	return s.repo.Create(ctx, c)
}

// GetOwned fetches a client and verifies it belongs to the partner.
func (s *Service) GetOwned(ctx context.Context, id, partnerID int64) (Client, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if c.PartnerID != partnerID {
		return Client{}, fmt.Errorf("%w: client", httpx.ErrNotFound)
	}
	return c, nil
}

// ListByPartner returns the partner's own clients.
func (s *Service) ListByPartner(ctx context.Context, partnerID int64) ([]Client, error) {
	return s.repo.ListByPartner(ctx, partnerID)
}
