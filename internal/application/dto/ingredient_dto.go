package dto

import "github.com/shopspring/decimal"

// IngredientRequest formulario de ingrediente (pestaña ingredientes).
type IngredientRequest struct {
	Name      string          `json:"nombre" validate:"required,min=1,max=200"`
	Cost      decimal.Decimal `json:"precio"`
	Calories  int             `json:"calorias" validate:"min=0"`
	Inventory int             `json:"inventario" validate:"min=0"`
	Type      string          `json:"tipo"`
	Flavor    string          `json:"sabor"`
}

// IngredientResponse salida de un ingrediente.
type IngredientResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"nombre"`
	Cost      decimal.Decimal `json:"precio"`
	Calories  int             `json:"calorias"`
	Inventory int             `json:"inventario"`
	Type      string          `json:"tipo"`
	Flavor    string          `json:"sabor"`
}

// IngredientStockResponse ingrediente de una receta con su inventario restante.
type IngredientStockResponse struct {
	IngredientID int64  `json:"ingrediente_id"`
	Name         string `json:"nombre"`
	Inventory    int    `json:"inventario"`
}
