// Package proforma implements the quote request/response workflow between
// partners and companies. A proforma is a strict one-shot state machine:
// requested -> approved | rejected, with no transition out of a terminal
// state.
package proforma

import "time"

// Status is the lifecycle state of a proforma.
type Status string

const (
	// StatusRequested is the initial state set by the partner.
	StatusRequested Status = "requested"
	// StatusApproved is terminal; set when the company attaches a quote.
	StatusApproved Status = "approved"
	// StatusRejected is terminal; set by an explicit company rejection.
	StatusRejected Status = "rejected"
)

// Quote is the structured company response attached on approval. It is
// persisted verbatim and echoed back exactly on reads.
type Quote struct {
	UnitPrice    float64 `json:"unit_price"`
	DiscountPct  float64 `json:"discount_pct"`
	DeliveryDays int     `json:"delivery_days"`
	ValidUntil   string  `json:"valid_until"`
	Terms        string  `json:"terms,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// Proforma is a quote request raised by a partner against a company product.
type Proforma struct {
	ID             int64      `json:"id"`
	Number         string     `json:"number"`
	PartnerID      int64      `json:"partner_id"`
	ClientID       int64      `json:"client_id"`
	CompanyID      int64      `json:"company_id"`
	ProductID      int64      `json:"product_id"`
	Quantity       int        `json:"quantity"`
	EstimatedPrice float64    `json:"estimated_price"`
	Notes          string     `json:"notes,omitempty"`
	Urgency        string     `json:"urgency,omitempty"`
	Status         Status     `json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	Quote          *Quote     `json:"quote,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
}

// CompanyListing is a row of the company-side inbox.
type CompanyListing struct {
	ID             int64     `json:"id"`
	Number         string    `json:"number"`
	RequestedAt    time.Time `json:"requested_at"`
	PartnerName    string    `json:"partner_name"`
	ClientName     string    `json:"client_name"`
	ProductName    string    `json:"product_name"`
	Quantity       int       `json:"quantity"`
	EstimatedPrice float64   `json:"estimated_price"`
	Status         Status    `json:"status"`
}

// PartnerListing is a row of the partner-side outbox.
type PartnerListing struct {
	ID             int64     `json:"id"`
	Number         string    `json:"number"`
	RequestedAt    time.Time `json:"requested_at"`
	ClientName     string    `json:"client_name"`
	CompanyName    string    `json:"company_name"`
	ProductName    string    `json:"product_name"`
	Quantity       int       `json:"quantity"`
	EstimatedPrice float64   `json:"estimated_price"`
	Status         Status    `json:"status"`
}

// DocumentData joins everything the quote document requires.
type DocumentData struct {
	Proforma

	CompanyName    string
	CompanyTaxID   string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	CompanyLogoURL string

	ClientName           string
	ClientDocument       string
	ClientRepresentative string
	ClientAddress        string
	ClientPhone          string
	ClientEmail          string

	ProductName        string
	ProductDescription string
}
