package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient representa un ingrediente con su inventario (tabla ingredientes).
// Inventory nunca debe quedar negativo después de una venta.
type Ingredient struct {
	ID        int64
	Name      string
	Cost      decimal.Decimal // precio (costo unitario)
	Calories  int
	Inventory int
	Type      string
	Flavor    string // sabor
	CreatedAt time.Time
}
