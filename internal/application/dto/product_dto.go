package dto

import "github.com/shopspring/decimal"

// ProductRequest formulario de producto (pestaña productos).
type ProductRequest struct {
	Name        string          `json:"nombre" validate:"required,min=1,max=200"`
	PublicPrice decimal.Decimal `json:"precio_publico"`
	Type        string          `json:"tipo"`
	Cup         string          `json:"vaso"`
	VolumeOz    decimal.Decimal `json:"volumen_onzas"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	PublicPrice decimal.Decimal `json:"precio_publico"`
	Type        string          `json:"tipo"`
	Cup         string          `json:"vaso"`
	VolumeOz    decimal.Decimal `json:"volumen_onzas"`
}

// CaloriesResponse fila de v_calorias_producto.
type CaloriesResponse struct {
	ProductID     int64  `json:"producto_id"`
	Name          string `json:"nombre"`
	TotalCalories int    `json:"total_calorias"`
}

// CatalogItemResponse producto del catálogo con su anotación de calorías (nil si la vista no lo tiene).
type CatalogItemResponse struct {
	ProductResponse
	Calories *CaloriesResponse `json:"calorias"`
}
