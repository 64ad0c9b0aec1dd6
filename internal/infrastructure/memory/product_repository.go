package memory

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// ProductRepository implementa repository.ProductRepository en memoria.
type ProductRepository struct {
	s *Store
}

func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.s.write(func(d *state) error {
		p.ID = r.s.nextID("productos")
		if p.CreatedAt.IsZero() {
			p.CreatedAt = r.s.now()
		}
		d.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(func(d *state) {
		if p, ok := d.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	return r.s.write(func(d *state) error {
		current, ok := d.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p.CreatedAt = current.CreatedAt
		d.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	r.s.read(func(d *state) {
		out = make([]*entity.Product, 0, len(d.products))
		for _, id := range sortedKeys(d.products) {
			p := d.products[id]
			out = append(out, &p)
		}
	})
	return out, nil
}

// Delete elimina el producto y su receta. Falla con ErrConflict si tiene ventas (FK RESTRICT).
func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, sale := range d.sales {
			if sale.ProductID == id {
				return domain.ErrConflict
			}
		}
		for rid, rel := range d.recipes {
			if rel.ProductID == id {
				delete(d.recipes, rid)
			}
		}
		delete(d.products, id)
		return nil
	})
}
