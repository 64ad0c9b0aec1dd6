// Package sales contiene las reglas puras del motor de ventas (servicio de dominio):
// validación de inventario, cálculo del total, resolución del comprador y
// visibilidad del listado por rol.
package sales

import (
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComputeTotal Total = Cantidad × PrecioUnitario.
func ComputeTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// CheckStock devuelve ErrInsufficientStock si algún ingrediente tiene menos
// inventario que la cantidad solicitada (cada unidad consume 1 de cada ingrediente).
func CheckStock(ingredients []entity.IngredientStock, quantity int) error {
	for _, ing := range ingredients {
		if ing.Inventory < quantity {
			return domain.ErrInsufficientStock
		}
	}
	return nil
}

// ShortIngredients ingredientes cuyo inventario no alcanza para la cantidad (para mensajes y métricas).
func ShortIngredients(ingredients []entity.IngredientStock, quantity int) []entity.IngredientStock {
	var short []entity.IngredientStock
	for _, ing := range ingredients {
		if ing.Inventory < quantity {
			short = append(short, ing)
		}
	}
	return short
}

// ResolveBuyer decide el comprador de la venta según el rol de quien registra:
// cliente siempre compra para sí mismo (se ignora el id enviado); empleado y admin
// usan el id seleccionado, que es opcional.
func ResolveBuyer(actorRole string, actorUserID int64, requested *int64) *int64 {
	if actorRole == entity.RoleCliente {
		if actorUserID <= 0 {
			return nil
		}
		id := actorUserID
		return &id
	}
	if requested == nil || *requested <= 0 {
		return nil
	}
	id := *requested
	return &id
}

// VisibleSales aplica el filtro de visibilidad en memoria sobre el listado completo:
// admin ve todo, empleado solo ventas cuyo comprador es cliente, el resto nada.
func VisibleSales(viewerRole string, all []entity.SaleDetail) []entity.SaleDetail {
	switch viewerRole {
	case entity.RoleAdmin:
		return all
	case entity.RoleEmpleado:
		out := make([]entity.SaleDetail, 0, len(all))
		for _, s := range all {
			if s.Buyer != nil && s.Buyer.Role == entity.RoleCliente {
				out = append(out, s)
			}
		}
		return out
	default:
		return []entity.SaleDetail{}
	}
}

// SelectableBuyers usuarios que el rol puede asignar como comprador.
func SelectableBuyers(viewerRole string, users []*entity.User) []*entity.User {
	switch viewerRole {
	case entity.RoleAdmin:
		return users
	case entity.RoleEmpleado:
		out := make([]*entity.User, 0, len(users))
		for _, u := range users {
			if u.Role == entity.RoleCliente {
				out = append(out, u)
			}
		}
		return out
	default:
		return []*entity.User{}
	}
}
