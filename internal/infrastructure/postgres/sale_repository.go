package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (tabla ventas).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta. Si Date es cero la BD asigna now().
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO ventas (fecha, producto_id, user_id, cantidad, total)
		VALUES (COALESCE($1, now()), $2, $3, $4, $5)
		RETURNING id, fecha`
	var date any
	if !s.Date.IsZero() {
		date = s.Date
	}
	err := r.q.QueryRow(ctx, query, date, s.ProductID, s.UserID, s.Quantity, s.Total).Scan(&s.ID, &s.Date)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT id, fecha, producto_id, user_id, cantidad, total FROM ventas WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta y bloquea la fila (SELECT FOR UPDATE).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT id, fecha, producto_id, user_id, cantidad, total FROM ventas WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query string, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Date, &s.ProductID, &s.UserID, &s.Quantity, &s.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	return &s, nil
}

func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDetailed todas las ventas, más recientes primero, con producto y comprador.
func (r *SaleRepo) ListDetailed(ctx context.Context) ([]entity.SaleDetail, error) {
	query := `
		SELECT v.id, v.fecha, v.producto_id, v.user_id, v.cantidad, v.total,
		       COALESCE(p.nombre, ''), u.id, u.correo, u.rol
		FROM ventas v
		LEFT JOIN productos p ON p.id = v.producto_id
		LEFT JOIN users u ON u.id = v.user_id
		ORDER BY v.fecha DESC, v.id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []entity.SaleDetail
	for rows.Next() {
		var (
			d          entity.SaleDetail
			buyerID    *int64
			buyerEmail *string
			buyerRole  *string
		)
		if err := rows.Scan(&d.ID, &d.Date, &d.ProductID, &d.UserID, &d.Quantity, &d.Total,
			&d.ProductName, &buyerID, &buyerEmail, &buyerRole); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		if buyerID != nil {
			d.Buyer = &entity.SaleBuyer{ID: *buyerID, Email: deref(buyerEmail), Role: deref(buyerRole)}
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
