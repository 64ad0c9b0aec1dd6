package memory

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// RecipeRepository implementa repository.RecipeRepository en memoria.
type RecipeRepository struct {
	s *Store
}

func NewRecipeRepository(s *Store) *RecipeRepository {
	return &RecipeRepository{s: s}
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)

// checkRelation valida las FKs y la unicidad (producto_id, ingrediente_id).
func checkRelation(d *state, rel *entity.ProductIngredient) error {
	if _, ok := d.products[rel.ProductID]; !ok {
		return domain.ErrInvalidInput
	}
	if _, ok := d.ingredients[rel.IngredientID]; !ok {
		return domain.ErrInvalidInput
	}
	for id, existing := range d.recipes {
		if id != rel.ID && existing.ProductID == rel.ProductID && existing.IngredientID == rel.IngredientID {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *RecipeRepository) Create(_ context.Context, rel *entity.ProductIngredient) error {
	return r.s.write(func(d *state) error {
		rel.ID = 0
		if err := checkRelation(d, rel); err != nil {
			return err
		}
		rel.ID = r.s.nextID("producto_ingrediente")
		d.recipes[rel.ID] = *rel
		return nil
	})
}

func (r *RecipeRepository) GetByID(_ context.Context, id int64) (*entity.ProductIngredient, error) {
	var out *entity.ProductIngredient
	r.s.read(func(d *state) {
		if rel, ok := d.recipes[id]; ok {
			out = &rel
		}
	})
	return out, nil
}

func (r *RecipeRepository) Update(_ context.Context, rel *entity.ProductIngredient) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.recipes[rel.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := checkRelation(d, rel); err != nil {
			return err
		}
		d.recipes[rel.ID] = *rel
		return nil
	})
}

func (r *RecipeRepository) Delete(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.recipes[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.recipes, id)
		return nil
	})
}

func (r *RecipeRepository) List(_ context.Context) ([]entity.RecipeLine, error) {
	var out []entity.RecipeLine
	r.s.read(func(d *state) {
		out = make([]entity.RecipeLine, 0, len(d.recipes))
		for _, id := range sortedKeys(d.recipes) {
			rel := d.recipes[id]
			out = append(out, entity.RecipeLine{
				ID:             rel.ID,
				ProductID:      rel.ProductID,
				ProductName:    d.products[rel.ProductID].Name,
				IngredientID:   rel.IngredientID,
				IngredientName: d.ingredients[rel.IngredientID].Name,
			})
		}
	})
	return out, nil
}

func (r *RecipeRepository) IngredientsByProduct(_ context.Context, productID int64) ([]entity.IngredientStock, error) {
	var out []entity.IngredientStock
	r.s.read(func(d *state) { out = d.recipeIngredients(productID) })
	return out, nil
}

func (r *RecipeRepository) IngredientsByProductForUpdate(ctx context.Context, productID int64) ([]entity.IngredientStock, error) {
	return r.IngredientsByProduct(ctx, productID)
}

func (r *RecipeRepository) IngredientsByProducts(_ context.Context, productIDs []int64) (map[int64][]entity.IngredientStock, error) {
	out := make(map[int64][]entity.IngredientStock, len(productIDs))
	r.s.read(func(d *state) {
		for _, id := range productIDs {
			out[id] = d.recipeIngredients(id)
		}
	})
	return out, nil
}
