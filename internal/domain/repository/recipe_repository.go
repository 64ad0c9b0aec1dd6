package repository

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
)

// RecipeRepository puerto para la tabla producto_ingrediente.
type RecipeRepository interface {
	Create(ctx context.Context, rel *entity.ProductIngredient) error
	GetByID(ctx context.Context, id int64) (*entity.ProductIngredient, error)
	Update(ctx context.Context, rel *entity.ProductIngredient) error
	Delete(ctx context.Context, id int64) error
	// List devuelve las asociaciones con nombre de producto e ingrediente.
	List(ctx context.Context) ([]entity.RecipeLine, error)
	// IngredientsByProduct ingredientes distintos de la receta con su inventario actual.
	IngredientsByProduct(ctx context.Context, productID int64) ([]entity.IngredientStock, error)
	// IngredientsByProductForUpdate igual que IngredientsByProduct pero bloquea las filas
	// de ingredientes (SELECT FOR UPDATE, en orden de id). Solo dentro de una transacción.
	IngredientsByProductForUpdate(ctx context.Context, productID int64) ([]entity.IngredientStock, error)
	// IngredientsByProducts agrupa por producto los ingredientes de varios productos.
	IngredientsByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.IngredientStock, error)
}
