package usecase

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// RecipeUseCase CRUD de las relaciones producto-ingrediente.
// Un ingrediente aparece a lo sumo una vez en la receta de un producto (ErrDuplicate).
type RecipeUseCase struct {
	repo repository.RecipeRepository
}

func NewRecipeUseCase(repo repository.RecipeRepository) *RecipeUseCase {
	return &RecipeUseCase{repo: repo}
}

func (uc *RecipeUseCase) Create(ctx context.Context, in dto.RecipeRequest) error {
	if in.ProductID <= 0 || in.IngredientID <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.repo.Create(ctx, &entity.ProductIngredient{ProductID: in.ProductID, IngredientID: in.IngredientID})
}

func (uc *RecipeUseCase) Update(ctx context.Context, id int64, in dto.RecipeRequest) error {
	if in.ProductID <= 0 || in.IngredientID <= 0 {
		return domain.ErrInvalidInput
	}
	rel, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rel == nil {
		return domain.ErrNotFound
	}
	rel.ProductID = in.ProductID
	rel.IngredientID = in.IngredientID
	return uc.repo.Update(ctx, rel)
}

func (uc *RecipeUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// List relaciones con nombres de producto e ingrediente.
func (uc *RecipeUseCase) List(ctx context.Context) ([]dto.RecipeResponse, error) {
	lines, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.RecipeResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			IngredientID:   l.IngredientID,
			ProductName:    l.ProductName,
			IngredientName: l.IngredientName,
		})
	}
	return out, nil
}
