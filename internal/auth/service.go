package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradelink-app/tradelink/internal/media"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

const bcryptCost = 10

// Service wraps registration and login business rules.
type Service struct {
	repo    Repository
	tokens  *TokenIssuer
	limiter *LoginLimiter
	media   *media.Store
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer, limiter *LoginLimiter, mediaStore *media.Store) *Service {
	return &Service{repo: repo, tokens: tokens, limiter: limiter, media: mediaStore}
}

// RegisterCompanyInput carries the fields of a seller registration.
type RegisterCompanyInput struct {
	Name        string
	TaxID       string
	Address     string
	Phone       string
	Email       string
	Password    string
	Description string
	Logo        string
}

// RegisterPartnerInput carries the fields of a reseller registration.
type RegisterPartnerInput struct {
	FirstName  string
	LastName   string
	NationalID string
	Phone      string
	Email      string
	Password   string
	Address    string
	Experience string
}

// RegisterCompany creates a seller account with a hashed password.
func (s *Service) RegisterCompany(ctx context.Context, input RegisterCompanyInput) (Company, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return Company{}, fmt.Errorf("auth: hash password: %w", err)
	}

	logoURL := ""
	if strings.HasPrefix(input.Logo, "data:") {
		logoURL, err = s.media.SaveDataURL(input.Logo)
		if err != nil {
			return Company{}, fmt.Errorf("%w: logo could not be stored", httpx.ErrValidation)
		}
	}

	company := Company{
		Name:        strings.TrimSpace(input.Name),
		TaxID:       strings.TrimSpace(input.TaxID),
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       strings.TrimSpace(input.Email),
		Description: strings.TrimSpace(input.Description),
		LogoURL:     logoURL,
	}
	return s.repo.CreateCompany(ctx, company, string(hash))
}

// RegisterPartner creates a reseller account with a hashed password.
func (s *Service) RegisterPartner(ctx context.Context, input RegisterPartnerInput) (Partner, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return Partner{}, fmt.Errorf("auth: hash password: %w", err)
	}
	partner := Partner{
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		NationalID: strings.TrimSpace(input.NationalID),
		Phone:      strings.TrimSpace(input.Phone),
		Email:      strings.TrimSpace(input.Email),
		Address:    strings.TrimSpace(input.Address),
		Experience: strings.TrimSpace(input.Experience),
	}
	return s.repo.CreatePartner(ctx, partner, string(hash))
}

// LoginCompany validates seller credentials and issues a bearer token.
func (s *Service) LoginCompany(ctx context.Context, email, password string) (Company, string, error) {
	if err := s.checkAttempts(ctx, email); err != nil {
		return Company{}, "", err
	}
	company, hash, err := s.repo.FindCompanyByEmail(ctx, email)
	if err != nil {
		return Company{}, "", s.loginFailure(ctx, email, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Company{}, "", s.loginFailure(ctx, email, ErrInvalidCredentials)
	}
	token, err := s.tokens.Issue(Principal{ID: company.ID, Role: RoleCompany})
	if err != nil {
		return Company{}, "", err
	}
	_ = s.limiter.Reset(ctx, email)
	return company, token, nil
}

// LoginPartner validates reseller credentials and issues a bearer token.
func (s *Service) LoginPartner(ctx context.Context, email, password string) (Partner, string, error) {
	if err := s.checkAttempts(ctx, email); err != nil {
		return Partner{}, "", err
	}
	partner, hash, err := s.repo.FindPartnerByEmail(ctx, email)
	if err != nil {
		return Partner{}, "", s.loginFailure(ctx, email, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Partner{}, "", s.loginFailure(ctx, email, ErrInvalidCredentials)
	}
	token, err := s.tokens.Issue(Principal{ID: partner.ID, Role: RolePartner})
	if err != nil {
		return Partner{}, "", err
	}
	_ = s.limiter.Reset(ctx, email)
	return partner, token, nil
}

func (s *Service) checkAttempts(ctx context.Context, email string) error {
	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrTooManyAttempts
	}
	return nil
}

// loginFailure normalises every credential failure to the same error so
// unknown emails cannot be told apart from wrong passwords.
func (s *Service) loginFailure(ctx context.Context, email string, err error) error {
	if errors.Is(err, httpx.ErrNotFound) || errors.Is(err, ErrInvalidCredentials) {
		_ = s.limiter.RecordFailure(ctx, email)
		return ErrInvalidCredentials
	}
	return err
}
