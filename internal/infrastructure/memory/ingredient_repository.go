package memory

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// IngredientRepository implementa repository.IngredientRepository en memoria.
type IngredientRepository struct {
	s *Store
}

func NewIngredientRepository(s *Store) *IngredientRepository {
	return &IngredientRepository{s: s}
}

var _ repository.IngredientRepository = (*IngredientRepository)(nil)

func (r *IngredientRepository) Create(_ context.Context, ing *entity.Ingredient) error {
	return r.s.write(func(d *state) error {
		ing.ID = r.s.nextID("ingredientes")
		if ing.CreatedAt.IsZero() {
			ing.CreatedAt = r.s.now()
		}
		d.ingredients[ing.ID] = *ing
		return nil
	})
}

func (r *IngredientRepository) GetByID(_ context.Context, id int64) (*entity.Ingredient, error) {
	var out *entity.Ingredient
	r.s.read(func(d *state) {
		if ing, ok := d.ingredients[id]; ok {
			out = &ing
		}
	})
	return out, nil
}

// GetForUpdate en memoria equivale a GetByID: las transacciones ya están serializadas.
func (r *IngredientRepository) GetForUpdate(ctx context.Context, id int64) (*entity.Ingredient, error) {
	return r.GetByID(ctx, id)
}

func (r *IngredientRepository) Update(_ context.Context, ing *entity.Ingredient) error {
	return r.s.write(func(d *state) error {
		current, ok := d.ingredients[ing.ID]
		if !ok {
			return domain.ErrNotFound
		}
		ing.CreatedAt = current.CreatedAt
		d.ingredients[ing.ID] = *ing
		return nil
	})
}

func (r *IngredientRepository) SetInventory(_ context.Context, id int64, inventory int) error {
	return r.s.write(func(d *state) error {
		ing, ok := d.ingredients[id]
		if !ok {
			return domain.ErrNotFound
		}
		ing.Inventory = inventory
		d.ingredients[id] = ing
		return nil
	})
}

func (r *IngredientRepository) List(_ context.Context) ([]*entity.Ingredient, error) {
	var out []*entity.Ingredient
	r.s.read(func(d *state) {
		out = make([]*entity.Ingredient, 0, len(d.ingredients))
		for _, id := range sortedKeys(d.ingredients) {
			ing := d.ingredients[id]
			out = append(out, &ing)
		}
	})
	return out, nil
}

// Delete elimina el ingrediente y sus asociaciones (ON DELETE CASCADE).
func (r *IngredientRepository) Delete(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.ingredients[id]; !ok {
			return domain.ErrNotFound
		}
		for rid, rel := range d.recipes {
			if rel.IngredientID == id {
				delete(d.recipes, rid)
			}
		}
		delete(d.ingredients, id)
		return nil
	})
}
