package entity

import "github.com/shopspring/decimal"

// ProductCalories fila de la vista v_calorias_producto.
type ProductCalories struct {
	ProductID     int64
	Name          string
	TotalCalories int
}

// ProductProfitability fila de la vista v_rentabilidad_producto.
// Profitability = PublicPrice − Cost (costo de la receta).
type ProductProfitability struct {
	ProductID     int64
	Name          string
	PublicPrice   decimal.Decimal
	Cost          decimal.Decimal
	Profitability decimal.Decimal
}
