package entity

import "time"

// Tipos de movimiento de inventario generados por el motor de ventas.
const (
	MovementTypeSale         = "SALE"          // consumo por venta
	MovementTypeSaleReversal = "SALE_REVERSAL" // reverso por eliminación de la venta
)

// InventoryMovement fila del log de compensación (tabla movimientos_inventario).
// Registra el delta exacto aplicado a un ingrediente para poder revertirlo.
type InventoryMovement struct {
	ID            string
	TransactionID string
	SaleID        int64
	IngredientID  int64
	Type          string
	Quantity      int // negativo en SALE, positivo en SALE_REVERSAL
	CreatedAt     time.Time
	CreatedBy     *int64
}
