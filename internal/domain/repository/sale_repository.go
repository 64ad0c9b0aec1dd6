package repository

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas.
type SaleRepository interface {
	// Create inserta la venta y asigna ID y Date.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	// GetForUpdate obtiene la venta y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	Delete(ctx context.Context, id int64) error
	// ListDetailed lista todas las ventas (más recientes primero) con producto y comprador.
	// Los ingredientes se completan en el caso de uso.
	ListDetailed(ctx context.Context) ([]entity.SaleDetail, error)
}
