package usecase

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// IngredientUseCase CRUD de ingredientes. El inventario se edita aquí a mano; las ventas
// lo modifican solo a través del motor de ventas.
type IngredientUseCase struct {
	repo repository.IngredientRepository
}

func NewIngredientUseCase(repo repository.IngredientRepository) *IngredientUseCase {
	return &IngredientUseCase{repo: repo}
}

func (uc *IngredientUseCase) Create(ctx context.Context, in dto.IngredientRequest) (*dto.IngredientResponse, error) {
	if err := checkIngredient(in); err != nil {
		return nil, err
	}
	ing := &entity.Ingredient{
		Name:      in.Name,
		Cost:      in.Cost,
		Calories:  in.Calories,
		Inventory: in.Inventory,
		Type:      in.Type,
		Flavor:    in.Flavor,
	}
	if err := uc.repo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return toIngredientResponse(ing), nil
}

func (uc *IngredientUseCase) Update(ctx context.Context, id int64, in dto.IngredientRequest) (*dto.IngredientResponse, error) {
	if err := checkIngredient(in); err != nil {
		return nil, err
	}
	ing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	ing.Name = in.Name
	ing.Cost = in.Cost
	ing.Calories = in.Calories
	ing.Inventory = in.Inventory
	ing.Type = in.Type
	ing.Flavor = in.Flavor
	if err := uc.repo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return toIngredientResponse(ing), nil
}

func (uc *IngredientUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *IngredientUseCase) List(ctx context.Context) ([]dto.IngredientResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IngredientResponse, 0, len(list))
	for _, ing := range list {
		out = append(out, *toIngredientResponse(ing))
	}
	return out, nil
}

func checkIngredient(in dto.IngredientRequest) error {
	if in.Name == "" || in.Cost.IsNegative() || in.Calories < 0 || in.Inventory < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

func toIngredientResponse(ing *entity.Ingredient) *dto.IngredientResponse {
	return &dto.IngredientResponse{
		ID:        ing.ID,
		Name:      ing.Name,
		Cost:      ing.Cost,
		Calories:  ing.Calories,
		Inventory: ing.Inventory,
		Type:      ing.Type,
		Flavor:    ing.Flavor,
	}
}
