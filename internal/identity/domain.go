// Package identity serves the public directory listings, partner performance
// stats and profile updates for both account kinds.
package identity

// PartnerSales is a partner row in the company's reseller list, aggregated
// over sales of that company's products.
type PartnerSales struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	UnitsSold       int64   `json:"units_sold"`
	TotalCommission float64 `json:"total_commission"`
}

// PartnerStats summarizes a partner's performance across the marketplace.
type PartnerStats struct {
	MonthCommission    float64 `json:"month_commission"`
	LifetimeCommission float64 `json:"lifetime_commission"`
	SaleCount          int64   `json:"sale_count"`
	CompanyCount       int64   `json:"company_count"`
}
