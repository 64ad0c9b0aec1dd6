package entity

// ProductIngredient fila de la receta de un producto (tabla producto_ingrediente).
// La cantidad por unidad vendida es implícitamente 1.
type ProductIngredient struct {
	ID           int64
	ProductID    int64
	IngredientID int64
}

// RecipeLine asociación con datos del producto y del ingrediente embebidos (listados).
type RecipeLine struct {
	ID             int64
	ProductID      int64
	ProductName    string
	IngredientID   int64
	IngredientName string
}

// IngredientStock ingrediente asociado a un producto con su inventario actual.
type IngredientStock struct {
	IngredientID int64
	Name         string
	Inventory    int
}
