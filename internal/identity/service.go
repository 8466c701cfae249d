package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/media"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Service wraps directory, stats and profile business rules.
type Service struct {
	repo  Repository
	media *media.Store
	now   func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, mediaStore *media.Store) *Service {
	return &Service{repo: repo, media: mediaStore, now: time.Now}
}

// ListCompanies returns the public company directory.
func (s *Service) ListCompanies(ctx context.Context) ([]auth.Company, error) {
	return s.repo.ListCompanies(ctx)
}

// ListPartnersForCompany returns the company's resellers with aggregates.
func (s *Service) ListPartnersForCompany(ctx context.Context, companyID int64) ([]PartnerSales, error) {
	return s.repo.ListPartnersForCompany(ctx, companyID)
}

// PartnerStats gathers the partner's performance summary. The four
// aggregates are independent, so they run in parallel.
func (s *Service) PartnerStats(ctx context.Context, partnerID int64) (PartnerStats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var stats PartnerStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.CommissionSince(ctx, partnerID, monthStart)
		stats.MonthCommission = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.LifetimeCommission(ctx, partnerID)
		stats.LifetimeCommission = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.SaleCount(ctx, partnerID)
		stats.SaleCount = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.CompanyCount(ctx, partnerID)
		stats.CompanyCount = v
		return err
	})
	if err := g.Wait(); err != nil {
		return PartnerStats{}, err
	}
	return stats, nil
}

// CompanyProfileInput carries a seller profile update.
type CompanyProfileInput struct {
	Name        string
	TaxID       string
	Address     string
	Phone       string
	Email       string
	Description string
	Logo        string
	LogoURL     string
}

// PartnerProfileInput carries a reseller profile update.
type PartnerProfileInput struct {
	FirstName  string
	LastName   string
	NationalID string
	Phone      string
	Email      string
	Address    string
	Experience string
}

// UpdateCompanyProfile rewrites the company's profile. A fresh logo may
// arrive as a base64 data URL; otherwise the previous public path is kept.
func (s *Service) UpdateCompanyProfile(ctx context.Context, companyID int64, in CompanyProfileInput) (auth.Company, error) {
	logoURL := in.LogoURL
	if strings.HasPrefix(in.Logo, "data:") {
		stored, err := s.media.SaveDataURL(in.Logo)
		if err != nil {
			return auth.Company{}, fmt.Errorf("%w: logo could not be stored", httpx.ErrValidation)
		}
		logoURL = stored
	}

	return s.repo.UpdateCompanyProfile(ctx, auth.Company{
		ID:          companyID,
		Name:        strings.TrimSpace(in.Name),
		TaxID:       strings.TrimSpace(in.TaxID),
		Address:     strings.TrimSpace(in.Address),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Description: strings.TrimSpace(in.Description),
		LogoURL:     logoURL,
	})
}

// UpdatePartnerProfile rewrites the partner's profile.
func (s *Service) UpdatePartnerProfile(ctx context.Context, partnerID int64, in PartnerProfileInput) (auth.Partner, error) {
	return s.repo.UpdatePartnerProfile(ctx, auth.Partner{
		ID:         partnerID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		NationalID: strings.TrimSpace(in.NationalID),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
		Address:    strings.TrimSpace(in.Address),
		Experience: strings.TrimSpace(in.Experience),
	})
}
