package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas sobre las vistas v_calorias_producto y v_rentabilidad_producto.
type ReportRepo struct {
	q Querier
}

func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) ProductCalories(ctx context.Context) ([]entity.ProductCalories, error) {
	rows, err := r.q.Query(ctx, `SELECT producto_id, nombre, total_calorias FROM v_calorias_producto ORDER BY producto_id`)
	if err != nil {
		return nil, fmt.Errorf("v_calorias_producto: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductCalories
	for rows.Next() {
		var c entity.ProductCalories
		if err := rows.Scan(&c.ProductID, &c.Name, &c.TotalCalories); err != nil {
			return nil, fmt.Errorf("scan calorias: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *ReportRepo) Profitability(ctx context.Context) ([]entity.ProductProfitability, error) {
	query := `
		SELECT producto_id, nombre, precio_publico, costo, rentabilidad
		FROM v_rentabilidad_producto
		ORDER BY rentabilidad DESC, producto_id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("v_rentabilidad_producto: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductProfitability
	for rows.Next() {
		var p entity.ProductProfitability
		if err := rows.Scan(&p.ProductID, &p.Name, &p.PublicPrice, &p.Cost, &p.Profitability); err != nil {
			return nil, fmt.Errorf("scan rentabilidad: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
