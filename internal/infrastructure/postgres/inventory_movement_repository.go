package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo log de compensación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_inventario (id, transaction_id, venta_id, ingrediente_id, tipo, cantidad, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()), $8)`
	var createdAt any
	if !m.CreatedAt.IsZero() {
		createdAt = m.CreatedAt
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.SaleID, m.IngredientID, m.Type, m.Quantity, createdAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create movimiento inventario: %w", err)
	}
	return nil
}

// ListBySale movimientos de una venta en orden de creación.
func (r *InventoryMovementRepo) ListBySale(ctx context.Context, saleID int64) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, transaction_id, venta_id, ingrediente_id, tipo, cantidad, created_at, created_by
		FROM movimientos_inventario WHERE venta_id = $1
		ORDER BY created_at ASC, ingrediente_id ASC`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.SaleID, &m.IngredientID, &m.Type, &m.Quantity, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
