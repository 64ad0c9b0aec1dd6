package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// InventoryMovementRepository log de compensación en memoria (solo inserción).
type InventoryMovementRepository struct {
	s *Store
}

func NewInventoryMovementRepository(s *Store) *InventoryMovementRepository {
	return &InventoryMovementRepository{s: s}
}

var _ repository.InventoryMovementRepository = (*InventoryMovementRepository)(nil)

func (r *InventoryMovementRepository) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.s.write(func(d *state) error {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = r.s.now()
		}
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *InventoryMovementRepository) ListBySale(_ context.Context, saleID int64) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	r.s.read(func(d *state) {
		for _, m := range d.movements {
			if m.SaleID == saleID {
				m := m
				out = append(out, &m)
			}
		}
	})
	return out, nil
}
