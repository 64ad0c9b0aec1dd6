package dto

// RecipeRequest formulario de relación producto-ingrediente (pestaña relaciones).
type RecipeRequest struct {
	ProductID    int64 `json:"producto_id" validate:"required,gt=0"`
	IngredientID int64 `json:"ingrediente_id" validate:"required,gt=0"`
}

// RecipeResponse relación con los nombres embebidos.
type RecipeResponse struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"producto_id"`
	IngredientID   int64  `json:"ingrediente_id"`
	ProductName    string `json:"producto"`
	IngredientName string `json:"ingrediente"`
}
