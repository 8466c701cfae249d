// Package sales implements the sale ledger: atomic stock decrement plus an
// immutable sale record with commission captured at sale time.
package sales

import (
	"errors"
	"time"
)

// Sale is an immutable fact record of a completed reseller transaction.
type Sale struct {
	ID              int64     `json:"id"`
	PartnerID       int64     `json:"partner_id"`
	ProductID       int64     `json:"product_id"`
	Quantity        int       `json:"quantity"`
	TotalPrice      float64   `json:"total_price"`
	TotalCommission float64   `json:"total_commission"`
	SoldAt          time.Time `json:"sold_at"`
}

// SaleWithDetails is the partner-facing history row.
type SaleWithDetails struct {
	Sale
	ProductName string `json:"product_name"`
	CompanyName string `json:"company_name"`
}

// ProductSnapshot is the portion of a product read under lock during
// sale registration.
type ProductSnapshot struct {
	ID            int64
	UnitPrice     float64
	CommissionPct float64
	Stock         int
}

var (
	// ErrInsufficientStock indicates the product cannot cover the
	// requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)
