package catalog

type productRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category"`
	UnitPrice     float64 `json:"unit_price" validate:"gte=0"`
	CommissionPct float64 `json:"commission_pct" validate:"gte=0,lte=100"`
	Stock         int     `json:"stock" validate:"gte=0"`
	Description   string  `json:"description"`
	Variant       string  `json:"variant"`
}

type productResponse struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}
