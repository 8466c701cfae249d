// Package auth implements registration, login and bearer-token verification
// for the two marketplace principals.
package auth

import (
	"errors"
	"time"
)

// Role identifies which side of the marketplace a principal belongs to.
type Role string

const (
	// RoleCompany is a product seller.
	RoleCompany Role = "company"
	// RolePartner is a commission-based reseller.
	RolePartner Role = "partner"
)

// Valid reports whether the role is one of the two known principal kinds.
func (r Role) Valid() bool {
	return r == RoleCompany || r == RolePartner
}

// Principal is the authenticated identity carried by every request.
type Principal struct {
	ID   int64
	Role Role
}

// Company is the public projection of a seller account. The password hash
// never leaves the repository layer.
type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TaxID       string `json:"tax_id,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
}

// Partner is the public projection of a reseller account.
type Partner struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	NationalID   string    `json:"national_id"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Address      string    `json:"address,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTokenMissing indicates no bearer token was presented.
	ErrTokenMissing = errors.New("authorization required")
	// ErrTokenInvalid indicates a malformed, tampered or expired token.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrTooManyAttempts indicates the login window for an email is exhausted.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
)
