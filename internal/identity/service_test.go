package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/media"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

type memoryIdentityRepo struct {
	companies []auth.Company
	partners  []PartnerSales

	commissionByMonth map[string]float64
	lifetime          float64
	saleCount         int64
	companyCount      int64
	statsErr          error

	emailsTaken map[string]bool
}

func (r *memoryIdentityRepo) ListCompanies(ctx context.Context) ([]auth.Company, error) {
	return r.companies, nil
}

func (r *memoryIdentityRepo) ListPartnersForCompany(ctx context.Context, companyID int64) ([]PartnerSales, error) {
	return r.partners, nil
}

func (r *memoryIdentityRepo) CommissionSince(ctx context.Context, partnerID int64, since time.Time) (float64, error) {
	if r.statsErr != nil {
		return 0, r.statsErr
	}
	return r.commissionByMonth[since.Format("2006-01")], nil
}

func (r *memoryIdentityRepo) LifetimeCommission(ctx context.Context, partnerID int64) (float64, error) {
	if r.statsErr != nil {
		return 0, r.statsErr
	}
	return r.lifetime, nil
}

func (r *memoryIdentityRepo) SaleCount(ctx context.Context, partnerID int64) (int64, error) {
	if r.statsErr != nil {
		return 0, r.statsErr
	}
	return r.saleCount, nil
}

func (r *memoryIdentityRepo) CompanyCount(ctx context.Context, partnerID int64) (int64, error) {
	if r.statsErr != nil {
		return 0, r.statsErr
	}
	return r.companyCount, nil
}

func (r *memoryIdentityRepo) UpdateCompanyProfile(ctx context.Context, c auth.Company) (auth.Company, error) {
	if r.emailsTaken[c.Email] {
		return auth.Company{}, httpx.ErrDuplicate
	}
	return c, nil
}

func (r *memoryIdentityRepo) UpdatePartnerProfile(ctx context.Context, p auth.Partner) (auth.Partner, error) {
	if r.emailsTaken[p.Email] {
		return auth.Partner{}, httpx.ErrDuplicate
	}
	return p, nil
}

func TestPartnerStatsAggregates(t *testing.T) {
	repo := &memoryIdentityRepo{
		commissionByMonth: map[string]float64{"2026-08": 120.50},
		lifetime:          980.75,
		saleCount:         14,
		companyCount:      3,
	}
	svc := NewService(repo, media.NewStore(t.TempDir()))
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.PartnerStats(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, PartnerStats{
		MonthCommission:    120.50,
		LifetimeCommission: 980.75,
		SaleCount:          14,
		CompanyCount:       3,
	}, stats)
}

func TestPartnerStatsPropagatesErrors(t *testing.T) {
	repo := &memoryIdentityRepo{statsErr: errors.New("connection reset")}
	svc := NewService(repo, media.NewStore(t.TempDir()))

	_, err := svc.PartnerStats(context.Background(), 7)
	require.Error(t, err)
}

func TestUpdateCompanyProfileEmailConflict(t *testing.T) {
	repo := &memoryIdentityRepo{emailsTaken: map[string]bool{"taken@acme.test": true}}
	svc := NewService(repo, media.NewStore(t.TempDir()))

	_, err := svc.UpdateCompanyProfile(context.Background(), 3, CompanyProfileInput{
		Name: "Acme", Email: "taken@acme.test",
	})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestUpdateCompanyProfileStoresNewLogo(t *testing.T) {
	repo := &memoryIdentityRepo{}
	svc := NewService(repo, media.NewStore(t.TempDir()))

	logo := "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"
	updated, err := svc.UpdateCompanyProfile(context.Background(), 3, CompanyProfileInput{
		Name: "Acme", Email: "sales@acme.test", Logo: logo,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(updated.LogoURL, "/public/logos/"))
}

func TestUpdateCompanyProfileKeepsExistingLogo(t *testing.T) {
	repo := &memoryIdentityRepo{}
	svc := NewService(repo, media.NewStore(t.TempDir()))

	updated, err := svc.UpdateCompanyProfile(context.Background(), 3, CompanyProfileInput{
		Name: "Acme", Email: "sales@acme.test", LogoURL: "/public/logos/existing.png",
	})
	require.NoError(t, err)
	require.Equal(t, "/public/logos/existing.png", updated.LogoURL)
}

func TestUpdatePartnerProfileTrimsFields(t *testing.T) {
	repo := &memoryIdentityRepo{}
	svc := NewService(repo, media.NewStore(t.TempDir()))

	updated, err := svc.UpdatePartnerProfile(context.Background(), 7, PartnerProfileInput{
		FirstName: "  Ana ", LastName: "Reyes", NationalID: "1234567",
		Phone: "555-0101", Email: " ana@reseller.test ",
	})
	require.NoError(t, err)
	require.Equal(t, "Ana", updated.FirstName)
	require.Equal(t, "ana@reseller.test", updated.Email)
	require.Equal(t, int64(7), updated.ID)
}
