package catalog

import (
	"context"
	"fmt"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateProduct(p Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	}
	if p.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", httpx.ErrValidation)
	}
	if p.CommissionPct < 0 || p.CommissionPct > 100 {
		return fmt.Errorf("%w: commission must be between 0 and 100", httpx.ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", httpx.ErrValidation)
	}
	return nil
}

// Create adds a product to the company's catalog.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, p)
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Update rewrites one of the company's own products.
func (s *Service) Update(ctx context.Context, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, p)
}

// Delete removes one of the company's own products.
func (s *Service) Delete(ctx context.Context, id, companyID int64) error {
	return s.repo.Delete(ctx, id, companyID)
}

// ListByCompany returns the company's own products.
func (s *Service) ListByCompany(ctx context.Context, companyID int64) ([]Product, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// ListAll returns the full catalog with company names, for partners.
func (s *Service) ListAll(ctx context.Context) ([]ProductWithCompany, error) {
	return s.repo.ListAll(ctx)
}
