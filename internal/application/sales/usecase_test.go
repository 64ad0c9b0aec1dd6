package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Heladeria-api/internal/application/sales"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
	"github.com/jhoicas/Heladeria-api/internal/domain/session"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/memory"
	"github.com/jhoicas/Heladeria-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: Vaso Mediano = Leche + Fresa, precio 5.00
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	repos   sales.TxRepos
	uc      *sales.UseCase
	product *entity.Product
	leche   *entity.Ingredient
	fresa   *entity.Ingredient
	admin   *entity.User
	emp     *entity.User
	cliente *entity.User
}

func newFixture(t *testing.T, opts ...sales.Option) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := memory.NewRepos(store)

	f := &fixture{store: store, repos: repos}
	f.product = &entity.Product{Name: "Vaso Mediano", PublicPrice: decimal.RequireFromString("5.00"), Type: "helado"}
	require.NoError(t, repos.Products.Create(ctx, f.product))
	f.leche = &entity.Ingredient{Name: "Leche", Cost: decimal.RequireFromString("0.80"), Calories: 120, Inventory: 10}
	require.NoError(t, repos.Ingredients.Create(ctx, f.leche))
	f.fresa = &entity.Ingredient{Name: "Fresa", Cost: decimal.RequireFromString("0.50"), Calories: 30, Inventory: 10}
	require.NoError(t, repos.Ingredients.Create(ctx, f.fresa))
	require.NoError(t, repos.Recipes.Create(ctx, &entity.ProductIngredient{ProductID: f.product.ID, IngredientID: f.leche.ID}))
	require.NoError(t, repos.Recipes.Create(ctx, &entity.ProductIngredient{ProductID: f.product.ID, IngredientID: f.fresa.ID}))

	f.admin = &entity.User{Name: "Admin", Email: "admin@heladeria.test", Role: entity.RoleAdmin}
	require.NoError(t, repos.Users.Create(ctx, f.admin))
	f.emp = &entity.User{Name: "Empleado", Email: "emp@heladeria.test", Role: entity.RoleEmpleado}
	require.NoError(t, repos.Users.Create(ctx, f.emp))
	f.cliente = &entity.User{Name: "Cliente", Email: "cliente@heladeria.test", Role: entity.RoleCliente}
	require.NoError(t, repos.Users.Create(ctx, f.cliente))

	f.uc = sales.NewUseCase(memory.NewTxRunner(store), repos, opts...)
	return f
}

func (f *fixture) sessionFor(u *entity.User) *session.Session {
	return session.Authenticated(u.ID, u.Email, u.Role, "token")
}

func (f *fixture) inventory(t *testing.T, id int64) int {
	t.Helper()
	ing, err := f.repos.Ingredients.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, ing)
	return ing.Inventory
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// memIdempotency store de llaves en memoria para probar reenvíos.
type memIdempotency struct {
	keys map[string]bool
}

func (m *memIdempotency) Reserve(_ context.Context, key string) (bool, error) {
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memIdempotency) Release(_ context.Context, key string) error {
	delete(m.keys, key)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterSale
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterSale_DescuentaInventarioYCalculaTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{
		ProductID: f.product.ID,
		Quantity:  3,
		UnitPrice: price("5.00"),
	})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("15.00")), "total = 3 × 5.00")
	assert.Equal(t, 3, out.Quantity)
	assert.Nil(t, out.UserID, "admin sin comprador seleccionado")
	assert.Equal(t, 7, f.inventory(t, f.leche.ID))
	assert.Equal(t, 7, f.inventory(t, f.fresa.ID))
	require.Len(t, out.RemainingIngredients, 2)

	movements, err := f.repos.Movements.ListBySale(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, movements[0].TransactionID, movements[1].TransactionID, "un solo id de transacción")
	for _, m := range movements {
		assert.Equal(t, entity.MovementTypeSale, m.Type)
		assert.Equal(t, -3, m.Quantity)
	}
}

func TestRegisterSale_InventarioInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Ingredients.SetInventory(ctx, f.leche.ID, 2))

	_, err := f.uc.RegisterSale(ctx, f.sessionFor(f.cliente), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 3})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 2, f.inventory(t, f.leche.ID))
	assert.Equal(t, 10, f.inventory(t, f.fresa.ID))
	list, err := f.repos.Sales.ListDetailed(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegisterSale_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterSale(context.Background(), f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RegisterSale(context.Background(), f.sessionFor(f.admin), sales.RegisterSaleInput{Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, f.inventory(t, f.leche.ID))
}

func TestRegisterSale_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterSale(context.Background(), f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: 999, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterSale_SesionPublicaNoPuedeVender(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterSale(context.Background(), session.Public(), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 10, f.inventory(t, f.leche.ID))
}

func TestRegisterSale_ClienteCompraParaSiMismo(t *testing.T) {
	f := newFixture(t)
	other := f.emp.ID

	out, err := f.uc.RegisterSale(context.Background(), f.sessionFor(f.cliente), sales.RegisterSaleInput{
		ProductID: f.product.ID,
		Quantity:  1,
		UserID:    &other,
	})
	require.NoError(t, err)
	require.NotNil(t, out.UserID)
	assert.Equal(t, f.cliente.ID, *out.UserID, "se ignora el comprador enviado por un cliente")
}

func TestRegisterSale_EmpleadoSoloAsignaClientes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.admin.ID

	_, err := f.uc.RegisterSale(ctx, f.sessionFor(f.emp), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1, UserID: &adminID})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, f.inventory(t, f.leche.ID))

	clienteID := f.cliente.ID
	out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.emp), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1, UserID: &clienteID})
	require.NoError(t, err)
	assert.Equal(t, clienteID, *out.UserID)
}

func TestRegisterSale_ReenvioIdempotenteRechazado(t *testing.T) {
	store := &memIdempotency{keys: map[string]bool{}}
	f := newFixture(t, sales.WithIdempotency(store))
	ctx := context.Background()
	in := sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 2, IdempotencyKey: "venta-1"}

	_, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), in)
	require.NoError(t, err)
	_, err = f.uc.RegisterSale(ctx, f.sessionFor(f.admin), in)
	require.ErrorIs(t, err, domain.ErrDuplicate)

	assert.Equal(t, 8, f.inventory(t, f.leche.ID), "el reenvío no descuenta de nuevo")
	list, err := f.repos.Sales.ListDetailed(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegisterSale_LlaveLiberadaSiLaVentaFalla(t *testing.T) {
	store := &memIdempotency{keys: map[string]bool{}}
	f := newFixture(t, sales.WithIdempotency(store))

	_, err := f.uc.RegisterSale(context.Background(), f.sessionFor(f.admin), sales.RegisterSaleInput{
		ProductID: f.product.ID, Quantity: 50, IdempotencyKey: "venta-2",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, store.keys)
}

func TestRegisterSale_LlaveIdempotenteAcotadaAlUsuario(t *testing.T) {
	store := &memIdempotency{keys: map[string]bool{}}
	f := newFixture(t, sales.WithIdempotency(store))
	ctx := context.Background()
	in := sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1, IdempotencyKey: "1"}

	_, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), in)
	require.NoError(t, err)
	_, err = f.uc.RegisterSale(ctx, f.sessionFor(f.emp), in)
	require.NoError(t, err, "la misma llave de otro usuario no es un reenvío")

	assert.Contains(t, store.keys, "admin@heladeria.test:1")
	assert.Contains(t, store.keys, "emp@heladeria.test:1")
	assert.Equal(t, 8, f.inventory(t, f.leche.ID))
}

func TestRegisterSale_PoliticasDePrecio(t *testing.T) {
	ctx := context.Background()

	t.Run("client usa el precio capturado", func(t *testing.T) {
		f := newFixture(t)
		out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 2, UnitPrice: price("4.00")})
		require.NoError(t, err)
		assert.True(t, out.Total.Equal(decimal.RequireFromString("8.00")))
	})

	t.Run("server usa el precio vigente", func(t *testing.T) {
		f := newFixture(t, sales.WithPricePolicy(config.PricePolicyServer))
		out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 2, UnitPrice: price("4.00")})
		require.NoError(t, err)
		assert.True(t, out.Total.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("strict rechaza precio desactualizado", func(t *testing.T) {
		f := newFixture(t, sales.WithPricePolicy(config.PricePolicyStrict))
		_, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 2, UnitPrice: price("4.00")})
		require.ErrorIs(t, err, domain.ErrPriceChanged)
		assert.Equal(t, 10, f.inventory(t, f.leche.ID))
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteSale
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteSale_RestauraInventarioExacto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 7, f.inventory(t, f.leche.ID))

	rev, err := f.uc.DeleteSale(ctx, f.sessionFor(f.admin), out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, rev.SaleID)
	assert.Len(t, rev.Restored, 2)
	assert.Equal(t, 10, f.inventory(t, f.leche.ID))
	assert.Equal(t, 10, f.inventory(t, f.fresa.ID))

	sale, err := f.repos.Sales.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Nil(t, sale)

	movements, err := f.repos.Movements.ListBySale(ctx, out.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 4, "el log conserva consumo y reverso")
}

func TestDeleteSale_UsaElLogAunqueCambieLaReceta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	// se agrega un ingrediente a la receta después de la venta
	chispas := &entity.Ingredient{Name: "Chispas", Inventory: 5}
	require.NoError(t, f.repos.Ingredients.Create(ctx, chispas))
	require.NoError(t, f.repos.Recipes.Create(ctx, &entity.ProductIngredient{ProductID: f.product.ID, IngredientID: chispas.ID}))

	_, err = f.uc.DeleteSale(ctx, f.sessionFor(f.admin), out.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, f.inventory(t, f.leche.ID))
	assert.Equal(t, 5, f.inventory(t, chispas.ID), "no se restaura lo que la venta no consumió")
}

func TestDeleteSale_VentaSinLogUsaRecetaActual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	legacy := &entity.Sale{ProductID: f.product.ID, Quantity: 2, Total: decimal.RequireFromString("10")}
	require.NoError(t, f.repos.Sales.Create(ctx, legacy))

	_, err := f.uc.DeleteSale(ctx, f.sessionFor(f.admin), legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, f.inventory(t, f.leche.ID))
	assert.Equal(t, 12, f.inventory(t, f.fresa.ID))
}

func TestDeleteSale_SoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.DeleteSale(ctx, f.sessionFor(f.emp), out.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 9, f.inventory(t, f.leche.ID))
}

func TestDeleteSale_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.DeleteSale(context.Background(), f.sessionFor(f.admin), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListSales / ListBuyers
// ──────────────────────────────────────────────────────────────────────────────

func TestListSales_VisibilidadPorRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clienteID := f.cliente.ID
	empID := f.emp.ID

	_, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1, UserID: &clienteID})
	require.NoError(t, err)
	_, err = f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1, UserID: &empID})
	require.NoError(t, err)
	_, err = f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)

	all, err := f.uc.ListSales(ctx, f.sessionFor(f.admin))
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	empView, err := f.uc.ListSales(ctx, f.sessionFor(f.emp))
	require.NoError(t, err)
	require.Equal(t, 1, empView.Total)
	require.NotNil(t, empView.Items[0].Buyer)
	assert.Equal(t, entity.RoleCliente, empView.Items[0].Buyer.Role)
	assert.Len(t, empView.Items[0].RemainingIngredients, 2)

	clientView, err := f.uc.ListSales(ctx, f.sessionFor(f.cliente))
	require.NoError(t, err)
	assert.Equal(t, 0, clientView.Total)
}

func TestListBuyers_PorRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adminView, err := f.uc.ListBuyers(ctx, f.sessionFor(f.admin))
	require.NoError(t, err)
	assert.Len(t, adminView, 3)

	empView, err := f.uc.ListBuyers(ctx, f.sessionFor(f.emp))
	require.NoError(t, err)
	require.Len(t, empView, 1)
	assert.Equal(t, f.cliente.Email, empView[0].Email)

	clientView, err := f.uc.ListBuyers(ctx, f.sessionFor(f.cliente))
	require.NoError(t, err)
	assert.Empty(t, clientView)
}

func TestSaleOptions_IncluyeInventario(t *testing.T) {
	f := newFixture(t)
	opts, err := f.uc.SaleOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "Vaso Mediano", opts[0].Name)
	require.Len(t, opts[0].Ingredients, 2)
	assert.Equal(t, 10, opts[0].Ingredients[0].Inventory)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

var errDiscoLleno = errors.New("disco lleno")

// failingIngredients falla SetInventory a partir de la llamada failOn.
type failingIngredients struct {
	repository.IngredientRepository
	calls  int
	failOn int
}

func (r *failingIngredients) SetInventory(ctx context.Context, id int64, inventory int) error {
	r.calls++
	if r.calls >= r.failOn {
		return errDiscoLleno
	}
	return r.IngredientRepository.SetInventory(ctx, id, inventory)
}

// failingRunner corre la transacción real con el repositorio de ingredientes envuelto.
type failingRunner struct {
	inner  sales.TxRunner
	failOn int
}

func (r failingRunner) RunSales(ctx context.Context, fn func(repos sales.TxRepos) error) error {
	return r.inner.RunSales(ctx, func(repos sales.TxRepos) error {
		repos.Ingredients = &failingIngredients{IngredientRepository: repos.Ingredients, failOn: r.failOn}
		return fn(repos)
	})
}

func TestRegisterSale_FallaEnSegundoIngredienteNoDejaEscrituras(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := sales.NewUseCase(failingRunner{inner: memory.NewTxRunner(f.store), failOn: 2}, f.repos)

	_, err := uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 2})
	require.ErrorIs(t, err, errDiscoLleno)

	list, err := f.repos.Sales.ListDetailed(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "sin fila de venta")
	movements, err := f.repos.Movements.ListBySale(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, movements, "sin movimientos de inventario")
	assert.Equal(t, 10, f.inventory(t, f.leche.ID), "el primer ingrediente ya descontado vuelve a su valor")
	assert.Equal(t, 10, f.inventory(t, f.fresa.ID))

	out, err := f.uc.RegisterSale(ctx, f.sessionFor(f.admin), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err, "el almacén queda usable después del rollback")
	assert.Equal(t, 8, f.inventory(t, f.leche.ID))
	assert.Len(t, out.RemainingIngredients, 2)
}

func TestRegisterSale_VentasConcurrentesNoDejanInventarioNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const (
		buyers   = 8
		quantity = 3
	)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
		unexpected   []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.RegisterSale(ctx, f.sessionFor(f.emp), sales.RegisterSaleInput{ProductID: f.product.ID, Quantity: quantity})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 10/quantity, ok, "solo se venden las unidades que alcanzan")
	assert.Equal(t, buyers-10/quantity, rejected)
	assert.Equal(t, 10-ok*quantity, f.inventory(t, f.leche.ID))
	assert.Equal(t, 10-ok*quantity, f.inventory(t, f.fresa.ID))

	list, err := f.repos.Sales.ListDetailed(ctx)
	require.NoError(t, err)
	assert.Len(t, list, ok)
}
