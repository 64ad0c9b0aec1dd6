package dto

import "github.com/shopspring/decimal"

// ProfitabilityRow fila del informe de rentabilidad.
type ProfitabilityRow struct {
	ProductID     int64           `json:"producto_id"`
	Name          string          `json:"nombre"`
	PublicPrice   decimal.Decimal `json:"precio_publico"`
	Cost          decimal.Decimal `json:"costo"`
	Profitability decimal.Decimal `json:"rentabilidad"`
}

// ProfitabilityReport filas ordenadas por rentabilidad descendente y su total.
type ProfitabilityReport struct {
	Rows               []ProfitabilityRow `json:"items"`
	TotalProfitability decimal.Decimal    `json:"total_rentabilidad"`
}
