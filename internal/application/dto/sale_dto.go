package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSaleRequest formulario de venta. UnitPrice es el precio público capturado
// cuando el cliente cargó el catálogo; UserID es el comprador (opcional, ignorado para clientes).
type RegisterSaleRequest struct {
	ProductID int64            `json:"producto_id" validate:"required,gt=0"`
	UserID    *int64           `json:"user_id"`
	Quantity  int              `json:"cantidad" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"precio_unitario"`
}

// SaleBuyerResponse comprador embebido.
type SaleBuyerResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"correo"`
	Role  string `json:"rol"`
}

// SaleResponse venta registrada o listada.
type SaleResponse struct {
	ID                   int64                     `json:"id"`
	Date                 time.Time                 `json:"fecha"`
	ProductID            int64                     `json:"producto_id"`
	ProductName          string                    `json:"producto,omitempty"`
	UserID               *int64                    `json:"user_id"`
	Buyer                *SaleBuyerResponse        `json:"usuario"`
	Quantity             int                       `json:"cantidad"`
	Total                decimal.Decimal           `json:"total"`
	RemainingIngredients []IngredientStockResponse `json:"ingredientes_restantes,omitempty"`
}

// SaleListResponse listado visible para el rol de la sesión.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Total int            `json:"total"`
}

// SaleProductOption producto seleccionable en el formulario de venta.
type SaleProductOption struct {
	ID          int64                     `json:"id"`
	Name        string                    `json:"nombre"`
	PublicPrice decimal.Decimal           `json:"precio_publico"`
	Ingredients []IngredientStockResponse `json:"ingredientes"`
}

// SaleReversalResponse resultado de eliminar una venta.
type SaleReversalResponse struct {
	SaleID   int64                     `json:"venta_id"`
	Restored []IngredientStockResponse `json:"inventario_restaurado"`
}
