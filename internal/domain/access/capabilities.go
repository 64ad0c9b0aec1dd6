// Package access contiene la tabla de capacidades por rol. Es la única fuente
// de verdad para decidir qué puede ver o hacer cada rol.
package access

import "github.com/jhoicas/Heladeria-api/internal/domain/entity"

// Action acción o vista protegida.
type Action string

const (
	ViewCatalog       Action = "view_catalog"
	ViewCalories      Action = "view_calories"
	ViewProfile       Action = "view_profile"
	ChangePassword    Action = "change_password"
	RegisterSale      Action = "register_sale"
	ListSales         Action = "list_sales"
	ChooseBuyer       Action = "choose_buyer"
	DeleteSale        Action = "delete_sale"
	ManageCatalog     Action = "manage_catalog"
	ManageUsers       Action = "manage_users"
	ViewProfitability Action = "view_profitability"
)

var (
	publicActions   = []Action{ViewCatalog}
	clienteActions  = append(append([]Action{}, publicActions...), ViewCalories, ViewProfile, ChangePassword, RegisterSale)
	empleadoActions = append(append([]Action{}, clienteActions...), ListSales, ChooseBuyer)
	adminActions    = append(append([]Action{}, empleadoActions...), DeleteSale, ManageCatalog, ManageUsers, ViewProfitability)
)

var capabilities = map[string]map[Action]struct{}{
	entity.RolePublic:   toSet(publicActions),
	entity.RoleCliente:  toSet(clienteActions),
	entity.RoleEmpleado: toSet(empleadoActions),
	entity.RoleAdmin:    toSet(adminActions),
}

func toSet(actions []Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Can indica si el rol tiene permitida la acción. Roles desconocidos no tienen permisos.
func Can(role string, action Action) bool {
	set, ok := capabilities[role]
	if !ok {
		return false
	}
	_, allowed := set[action]
	return allowed
}

// Actions lista las acciones permitidas para un rol (orden estable).
func Actions(role string) []Action {
	var out []Action
	for _, a := range adminActions {
		if Can(role, a) {
			out = append(out, a)
		}
	}
	return out
}
