package usecase

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// CatalogUseCase catálogo público: productos anotados con sus calorías.
type CatalogUseCase struct {
	products repository.ProductRepository
	reports  repository.ReportRepository
}

func NewCatalogUseCase(products repository.ProductRepository, reports repository.ReportRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products, reports: reports}
}

// List une en memoria productos con v_calorias_producto por id (left join):
// un producto sin fila en la vista queda con Calories nil.
func (uc *CatalogUseCase) List(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	calories, err := uc.reports.ProductCalories(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[int64]dto.CaloriesResponse, len(calories))
	for _, c := range calories {
		byProduct[c.ProductID] = dto.CaloriesResponse{ProductID: c.ProductID, Name: c.Name, TotalCalories: c.TotalCalories}
	}
	out := make([]dto.CatalogItemResponse, 0, len(products))
	for _, p := range products {
		item := dto.CatalogItemResponse{ProductResponse: *toProductResponse(p)}
		if c, ok := byProduct[p.ID]; ok {
			c := c
			item.Calories = &c
		}
		out = append(out, item)
	}
	return out, nil
}

// Calories filas de la vista de calorías.
func (uc *CatalogUseCase) Calories(ctx context.Context) ([]dto.CaloriesResponse, error) {
	rows, err := uc.reports.ProductCalories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CaloriesResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.CaloriesResponse{ProductID: c.ProductID, Name: c.Name, TotalCalories: c.TotalCalories})
	}
	return out, nil
}
