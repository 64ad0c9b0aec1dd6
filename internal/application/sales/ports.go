package sales

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Products    repository.ProductRepository
	Ingredients repository.IngredientRepository
	Recipes     repository.RecipeRepository
	Sales       repository.SaleRepository
	Users       repository.UserRepository
	Movements   repository.InventoryMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn retorna nil, Rollback en cualquier otro caso. Garantiza que la venta y el
// descuento de inventario se apliquen juntos o no se apliquen.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(repos TxRepos) error) error
}

// IdempotencyStore reserva llaves de idempotencia para evitar ventas duplicadas por reenvío.
// Las llaves llegan ya acotadas al usuario: <correo>:<Idempotency-Key>.
type IdempotencyStore interface {
	// Reserve devuelve false si la llave ya estaba reservada.
	Reserve(ctx context.Context, key string) (bool, error)
	// Release libera una llave cuya operación falló, para permitir el reintento.
	Release(ctx context.Context, key string) error
}

// Recorder métricas de negocio del motor de ventas.
type Recorder interface {
	// SaleRegistered venta aceptada; units es el total de unidades de ingredientes descontadas.
	SaleRegistered(productID int64, quantity, units int)
	SaleRejected(reason string)
	SaleReversed(quantity int)
}

type noopIdempotency struct{}

func (noopIdempotency) Reserve(context.Context, string) (bool, error) { return true, nil }
func (noopIdempotency) Release(context.Context, string) error         { return nil }

type noopRecorder struct{}

func (noopRecorder) SaleRegistered(int64, int, int) {}
func (noopRecorder) SaleRejected(string)            {}
func (noopRecorder) SaleReversed(int)               {}
