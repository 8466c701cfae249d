// Package clients manages the end-customer records owned by partners.
package clients

import "time"

// Kind distinguishes organization clients from individual ones.
type Kind string

const (
	// KindIndividual is a natural-person client.
	KindIndividual Kind = "individual"
	// KindOrganization is a company client with a representative.
	KindOrganization Kind = "organization"
)

// Valid reports whether the kind is known.
func (k Kind) Valid() bool {
	return k == KindIndividual || k == KindOrganization
}

// Client is an end customer owned by exactly one partner. Name fields are
// conditional on the kind: organizations carry OrgName/Representative/TaxID,
// individuals carry FirstName/LastName/NationalID.
type Client struct {
	ID             int64     `json:"id"`
	PartnerID      int64     `json:"partner_id"`
	Kind           Kind      `json:"kind"`
	OrgName        string    `json:"org_name,omitempty"`
	Representative string    `json:"representative,omitempty"`
	TaxID          string    `json:"tax_id,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	NationalID     string    `json:"national_id,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// DisplayName returns the client's presentable name for listings and
// quote documents.
func (c Client) DisplayName() string {
	if c.Kind == KindOrganization {
		return c.OrgName
	}
	return c.FirstName + " " + c.LastName
}

// Document returns the client's identifying document (tax id or national id).
func (c Client) Document() string {
	if c.Kind == KindOrganization {
		return c.TaxID
	}
	return c.NationalID
}
