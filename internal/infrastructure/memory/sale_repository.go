package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// SaleRepository implementa repository.SaleRepository en memoria.
type SaleRepository struct {
	s *Store
}

func NewSaleRepository(s *Store) *SaleRepository {
	return &SaleRepository{s: s}
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.products[sale.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if sale.UserID != nil {
			if _, ok := d.users[*sale.UserID]; !ok {
				return domain.ErrInvalidInput
			}
		}
		sale.ID = r.s.nextID("ventas")
		if sale.Date.IsZero() {
			sale.Date = r.s.now()
		}
		d.sales[sale.ID] = *sale
		return nil
	})
}

func (r *SaleRepository) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	r.s.read(func(d *state) {
		if sale, ok := d.sales[id]; ok {
			out = &sale
		}
	})
	return out, nil
}

func (r *SaleRepository) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepository) Delete(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.sales[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.sales, id)
		return nil
	})
}

// ListDetailed ventas más recientes primero (a igual fecha, mayor id primero).
func (r *SaleRepository) ListDetailed(_ context.Context) ([]entity.SaleDetail, error) {
	var out []entity.SaleDetail
	r.s.read(func(d *state) {
		out = make([]entity.SaleDetail, 0, len(d.sales))
		for _, sale := range d.sales {
			detail := entity.SaleDetail{Sale: sale, ProductName: d.products[sale.ProductID].Name}
			if sale.UserID != nil {
				if u, ok := d.users[*sale.UserID]; ok {
					detail.Buyer = &entity.SaleBuyer{ID: u.ID, Email: u.Email, Role: u.Role}
				}
			}
			out = append(out, detail)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
