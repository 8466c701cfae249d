// Package catalog manages the products owned by seller companies.
package catalog

import "time"

// Product is a sellable item owned by exactly one company.
type Product struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category,omitempty"`
	UnitPrice     float64   `json:"unit_price"`
	CommissionPct float64   `json:"commission_pct"`
	Stock         int       `json:"stock"`
	Description   string    `json:"description,omitempty"`
	Variant       string    `json:"variant,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProductWithCompany is the partner-facing listing row.
type ProductWithCompany struct {
	Product
	CompanyName string `json:"company_name"`
}
