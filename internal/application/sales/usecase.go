// Package sales implementa el motor de ventas: registro de una venta con descuento
// de inventario de los ingredientes de la receta, y eliminación con reverso exacto.
package sales

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/access"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	salesrules "github.com/jhoicas/Heladeria-api/internal/domain/sales"
	"github.com/jhoicas/Heladeria-api/internal/domain/session"
	"github.com/jhoicas/Heladeria-api/pkg/config"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Motivos de rechazo reportados a métricas.
const (
	RejectInvalidInput      = "invalid_input"
	RejectInsufficientStock = "insufficient_stock"
	RejectNotFound          = "not_found"
	RejectDuplicate         = "duplicate"
	RejectPriceChanged      = "price_changed"
	RejectForbidden         = "forbidden"
	RejectInternal          = "internal"
)

// RegisterSaleInput entrada del registro de una venta.
type RegisterSaleInput struct {
	ProductID      int64
	UserID         *int64
	Quantity       int
	UnitPrice      *decimal.Decimal // precio capturado al cargar el catálogo
	IdempotencyKey string
}

// UseCase motor de ventas. Las escrituras pasan por TxRunner; los listados usan
// los repositorios de lectura (pool).
type UseCase struct {
	tx          TxRunner
	reads       TxRepos
	idem        IdempotencyStore
	metrics     Recorder
	log         *logger.Logger
	pricePolicy string
	now         func() time.Time
}

// Option configura dependencias opcionales del motor de ventas.
type Option func(*UseCase)

// WithIdempotency usa el store indicado para las llaves Idempotency-Key.
func WithIdempotency(store IdempotencyStore) Option {
	return func(uc *UseCase) {
		if store != nil {
			uc.idem = store
		}
	}
}

// WithRecorder registra métricas de negocio.
func WithRecorder(r Recorder) Option {
	return func(uc *UseCase) {
		if r != nil {
			uc.metrics = r
		}
	}
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(uc *UseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithPricePolicy fija la política de precio (client, server, strict).
func WithPricePolicy(policy string) Option {
	return func(uc *UseCase) {
		if policy != "" {
			uc.pricePolicy = policy
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// NewUseCase construye el motor de ventas.
func NewUseCase(tx TxRunner, reads TxRepos, opts ...Option) *UseCase {
	uc := &UseCase{
		tx:          tx,
		reads:       reads,
		idem:        noopIdempotency{},
		metrics:     noopRecorder{},
		log:         logger.Nop(),
		pricePolicy: config.PricePolicyClient,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RegisterSale valida inventario, inserta la venta y descuenta cada ingrediente de la
// receta en una sola transacción. Si algo falla no queda ninguna escritura aplicada.
func (uc *UseCase) RegisterSale(ctx context.Context, sess *session.Session, in RegisterSaleInput) (*dto.SaleResponse, error) {
	role := sess.CurrentRole()
	if !access.Can(role, access.RegisterSale) {
		uc.metrics.SaleRejected(RejectForbidden)
		return nil, domain.ErrForbidden
	}
	if in.ProductID <= 0 || in.Quantity < 1 {
		uc.metrics.SaleRejected(RejectInvalidInput)
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		uc.metrics.SaleRejected(RejectInvalidInput)
		return nil, domain.ErrInvalidInput
	}

	idemKey := idempotencyKey(sess, in.IdempotencyKey)
	if idemKey != "" {
		reserved, err := uc.idem.Reserve(ctx, idemKey)
		if err != nil {
			uc.log.Warn().Err(err).Str("idempotency_key", idemKey).Msg("no se pudo reservar la llave de idempotencia, se continúa")
		} else if !reserved {
			uc.metrics.SaleRejected(RejectDuplicate)
			return nil, domain.ErrDuplicate
		}
	}

	var (
		created  *entity.Sale
		product  *entity.Product
		consumed []entity.IngredientStock
	)
	err := uc.tx.RunSales(ctx, func(r TxRepos) error {
		var err error
		product, err = r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		price, err := uc.unitPrice(product, in.UnitPrice)
		if err != nil {
			return err
		}

		ingredients, err := r.Recipes.IngredientsByProductForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if err := salesrules.CheckStock(ingredients, in.Quantity); err != nil {
			uc.log.Info().
				Int64("producto_id", in.ProductID).
				Int("cantidad", in.Quantity).
				Int("ingredientes_faltantes", len(salesrules.ShortIngredients(ingredients, in.Quantity))).
				Msg("venta rechazada por inventario")
			return err
		}

		buyer := salesrules.ResolveBuyer(role, sess.UserID, in.UserID)
		if buyer != nil && role != entity.RoleCliente {
			if err := uc.checkBuyer(ctx, r, role, *buyer); err != nil {
				return err
			}
		}

		now := uc.now()
		sale := &entity.Sale{
			Date:      now,
			ProductID: in.ProductID,
			UserID:    buyer,
			Quantity:  in.Quantity,
			Total:     salesrules.ComputeTotal(price, in.Quantity),
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		txID := uuid.New().String()
		consumed = make([]entity.IngredientStock, 0, len(ingredients))
		for _, ing := range ingredients {
			remaining := ing.Inventory - in.Quantity
			if err := r.Ingredients.SetInventory(ctx, ing.IngredientID, remaining); err != nil {
				return err
			}
			if err := r.Movements.Create(ctx, &entity.InventoryMovement{
				TransactionID: txID,
				SaleID:        sale.ID,
				IngredientID:  ing.IngredientID,
				Type:          entity.MovementTypeSale,
				Quantity:      -in.Quantity,
				CreatedAt:     now,
				CreatedBy:     actorID(sess),
			}); err != nil {
				return err
			}
			consumed = append(consumed, entity.IngredientStock{IngredientID: ing.IngredientID, Name: ing.Name, Inventory: remaining})
		}
		created = sale
		return nil
	})
	if err != nil {
		if idemKey != "" {
			if relErr := uc.idem.Release(ctx, idemKey); relErr != nil {
				uc.log.Warn().Err(relErr).Str("idempotency_key", idemKey).Msg("no se pudo liberar la llave de idempotencia")
			}
		}
		uc.metrics.SaleRejected(rejectReason(err))
		if rejectReason(err) == RejectInternal {
			uc.log.Error().Err(err).Int64("producto_id", in.ProductID).Msg("registrar venta")
		}
		return nil, err
	}

	uc.metrics.SaleRegistered(created.ProductID, created.Quantity, created.Quantity*len(consumed))
	uc.log.Info().
		Int64("venta_id", created.ID).
		Int64("producto_id", created.ProductID).
		Int("cantidad", created.Quantity).
		Str("total", created.Total.StringFixed(2)).
		Str("rol", role).
		Msg("venta registrada")

	out := toSaleResponse(entity.SaleDetail{Sale: *created, ProductName: product.Name, Ingredients: consumed})
	return &out, nil
}

// DeleteSale elimina una venta (solo admin) y devuelve a cada ingrediente consumido
// exactamente la cantidad de la venta. Usa el log de movimientos de la venta; si la venta
// no tiene movimientos (datos previos al log) se usa la receta actual del producto.
func (uc *UseCase) DeleteSale(ctx context.Context, sess *session.Session, saleID int64) (*dto.SaleReversalResponse, error) {
	if !access.Can(sess.CurrentRole(), access.DeleteSale) {
		return nil, domain.ErrForbidden
	}
	if saleID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var (
		restored []entity.IngredientStock
		quantity int
	)
	err := uc.tx.RunSales(ctx, func(r TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		quantity = sale.Quantity

		movements, err := r.Movements.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		ingredientIDs := consumedIngredients(movements)
		if len(ingredientIDs) == 0 {
			current, err := r.Recipes.IngredientsByProductForUpdate(ctx, sale.ProductID)
			if err != nil {
				return err
			}
			for _, ing := range current {
				ingredientIDs = append(ingredientIDs, ing.IngredientID)
			}
		}

		now := uc.now()
		txID := uuid.New().String()
		restored = make([]entity.IngredientStock, 0, len(ingredientIDs))
		for _, id := range ingredientIDs {
			ing, err := r.Ingredients.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if ing == nil {
				// ingrediente eliminado después de la venta: no hay inventario que restaurar
				continue
			}
			inventory := ing.Inventory + sale.Quantity
			if err := r.Ingredients.SetInventory(ctx, id, inventory); err != nil {
				return err
			}
			if err := r.Movements.Create(ctx, &entity.InventoryMovement{
				TransactionID: txID,
				SaleID:        sale.ID,
				IngredientID:  id,
				Type:          entity.MovementTypeSaleReversal,
				Quantity:      sale.Quantity,
				CreatedAt:     now,
				CreatedBy:     actorID(sess),
			}); err != nil {
				return err
			}
			restored = append(restored, entity.IngredientStock{IngredientID: id, Name: ing.Name, Inventory: inventory})
		}
		return r.Sales.Delete(ctx, sale.ID)
	})
	if err != nil {
		if rejectReason(err) == RejectInternal {
			uc.log.Error().Err(err).Int64("venta_id", saleID).Msg("eliminar venta")
		}
		return nil, err
	}

	uc.metrics.SaleReversed(quantity)
	uc.log.Info().Int64("venta_id", saleID).Int("cantidad", quantity).Int("ingredientes", len(restored)).Msg("venta eliminada y stock revertido")
	return &dto.SaleReversalResponse{SaleID: saleID, Restored: toIngredientStockResponses(restored)}, nil
}

// ListSales hace una sola consulta sin filtrar y aplica en memoria la visibilidad del rol:
// admin ve todo, empleado solo ventas de clientes, cliente nada.
func (uc *UseCase) ListSales(ctx context.Context, sess *session.Session) (*dto.SaleListResponse, error) {
	all, err := uc.reads.Sales.ListDetailed(ctx)
	if err != nil {
		return nil, err
	}
	visible := salesrules.VisibleSales(sess.CurrentRole(), all)

	productIDs := make([]int64, 0, len(visible))
	seen := make(map[int64]struct{}, len(visible))
	for _, s := range visible {
		if _, ok := seen[s.ProductID]; !ok {
			seen[s.ProductID] = struct{}{}
			productIDs = append(productIDs, s.ProductID)
		}
	}
	var byProduct map[int64][]entity.IngredientStock
	if len(productIDs) > 0 {
		byProduct, err = uc.reads.Recipes.IngredientsByProducts(ctx, productIDs)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dto.SaleResponse, 0, len(visible))
	for _, s := range visible {
		s.Ingredients = byProduct[s.ProductID]
		items = append(items, toSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Total: len(items)}, nil
}

// ListBuyers usuarios que el rol de la sesión puede elegir como comprador.
func (uc *UseCase) ListBuyers(ctx context.Context, sess *session.Session) ([]dto.UserResponse, error) {
	role := sess.CurrentRole()
	if !access.Can(role, access.ChooseBuyer) {
		return []dto.UserResponse{}, nil
	}
	users, err := uc.reads.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	selectable := salesrules.SelectableBuyers(role, users)
	out := make([]dto.UserResponse, 0, len(selectable))
	for _, u := range selectable {
		out = append(out, dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
	}
	return out, nil
}

// SaleOptions productos con precio e inventario restante de sus ingredientes (formulario de venta).
func (uc *UseCase) SaleOptions(ctx context.Context) ([]dto.SaleProductOption, error) {
	products, err := uc.reads.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	var byProduct map[int64][]entity.IngredientStock
	if len(ids) > 0 {
		byProduct, err = uc.reads.Recipes.IngredientsByProducts(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	out := make([]dto.SaleProductOption, 0, len(products))
	for _, p := range products {
		out = append(out, dto.SaleProductOption{
			ID:          p.ID,
			Name:        p.Name,
			PublicPrice: p.PublicPrice,
			Ingredients: toIngredientStockResponses(byProduct[p.ID]),
		})
	}
	return out, nil
}

// unitPrice aplica la política de precio configurada.
func (uc *UseCase) unitPrice(product *entity.Product, captured *decimal.Decimal) (decimal.Decimal, error) {
	switch uc.pricePolicy {
	case config.PricePolicyServer:
		return product.PublicPrice, nil
	case config.PricePolicyStrict:
		if captured != nil && !captured.Equal(product.PublicPrice) {
			return decimal.Zero, domain.ErrPriceChanged
		}
		return product.PublicPrice, nil
	default:
		if captured != nil {
			return *captured, nil
		}
		return product.PublicPrice, nil
	}
}

// checkBuyer valida el comprador elegido: debe existir y, si registra un empleado, ser cliente.
func (uc *UseCase) checkBuyer(ctx context.Context, r TxRepos, role string, buyerID int64) error {
	buyer, err := r.Users.GetByID(ctx, buyerID)
	if err != nil {
		return err
	}
	if buyer == nil {
		return domain.ErrInvalidInput
	}
	if role == entity.RoleEmpleado && buyer.Role != entity.RoleCliente {
		return domain.ErrInvalidInput
	}
	return nil
}

// consumedIngredients ingredientes descontados por la venta según el log, en orden de id
// (mismo orden de bloqueo que el registro, para evitar deadlocks).
func consumedIngredients(movements []*entity.InventoryMovement) []int64 {
	seen := make(map[int64]struct{}, len(movements))
	var ids []int64
	for _, m := range movements {
		if m.Type != entity.MovementTypeSale {
			continue
		}
		if _, ok := seen[m.IngredientID]; ok {
			continue
		}
		seen[m.IngredientID] = struct{}{}
		ids = append(ids, m.IngredientID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// idempotencyKey acota la llave del cliente al usuario de la sesión: dos usuarios que
// generen la misma llave no se bloquean entre sí.
func idempotencyKey(sess *session.Session, key string) string {
	if key == "" {
		return ""
	}
	return strings.ToLower(sess.Email) + ":" + key
}

func actorID(sess *session.Session) *int64 {
	if !sess.HasUser() {
		return nil
	}
	id := sess.UserID
	return &id
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return RejectInsufficientStock
	case errors.Is(err, domain.ErrNotFound):
		return RejectNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return RejectInvalidInput
	case errors.Is(err, domain.ErrPriceChanged):
		return RejectPriceChanged
	case errors.Is(err, domain.ErrDuplicate):
		return RejectDuplicate
	case errors.Is(err, domain.ErrForbidden):
		return RejectForbidden
	default:
		return RejectInternal
	}
}

func toSaleResponse(s entity.SaleDetail) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:                   s.ID,
		Date:                 s.Date,
		ProductID:            s.ProductID,
		ProductName:          s.ProductName,
		UserID:               s.UserID,
		Quantity:             s.Quantity,
		Total:                s.Total,
		RemainingIngredients: toIngredientStockResponses(s.Ingredients),
	}
	if s.Buyer != nil {
		out.Buyer = &dto.SaleBuyerResponse{ID: s.Buyer.ID, Email: s.Buyer.Email, Role: s.Buyer.Role}
	}
	return out
}

func toIngredientStockResponses(list []entity.IngredientStock) []dto.IngredientStockResponse {
	out := make([]dto.IngredientStockResponse, 0, len(list))
	for _, ing := range list {
		out = append(out, dto.IngredientStockResponse{IngredientID: ing.IngredientID, Name: ing.Name, Inventory: ing.Inventory})
	}
	return out
}
