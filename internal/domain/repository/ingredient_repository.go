package repository

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
)

// IngredientRepository define el puerto de persistencia para Ingredient (DIP).
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	GetByID(ctx context.Context, id int64) (*entity.Ingredient, error)
	Update(ctx context.Context, ingredient *entity.Ingredient) error
	List(ctx context.Context) ([]*entity.Ingredient, error)
	Delete(ctx context.Context, id int64) error
	// GetForUpdate obtiene el ingrediente y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Ingredient, error)
	// SetInventory fija el inventario de un ingrediente. Usado por el motor de ventas
	// dentro de una transacción, después de bloquear la fila.
	SetInventory(ctx context.Context, id int64, inventory int) error
}
