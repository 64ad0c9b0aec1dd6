package repository

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
)

// InventoryMovementRepository puerto del log de compensación de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListBySale movimientos de una venta en orden de creación.
	ListBySale(ctx context.Context, saleID int64) ([]*entity.InventoryMovement, error)
}
