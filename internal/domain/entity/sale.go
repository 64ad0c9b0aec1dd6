package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta (tabla ventas). Total se captura al insertar
// (Quantity × precio del producto) y no se recalcula después.
type Sale struct {
	ID        int64
	Date      time.Time
	ProductID int64
	UserID    *int64 // comprador, opcional
	Quantity  int
	Total     decimal.Decimal
}

// SaleBuyer datos del comprador embebidos en un listado de ventas.
type SaleBuyer struct {
	ID    int64
	Email string
	Role  string
}

// SaleDetail venta con producto, comprador e ingredientes del producto embebidos.
type SaleDetail struct {
	Sale
	ProductName string
	Buyer       *SaleBuyer
	Ingredients []IngredientStock
}
