package repository

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
)

// ReportRepository consultas de solo lectura sobre las vistas de reporte.
type ReportRepository interface {
	// ProductCalories filas de v_calorias_producto.
	ProductCalories(ctx context.Context) ([]entity.ProductCalories, error)
	// Profitability filas de v_rentabilidad_producto ordenadas por rentabilidad descendente.
	Profitability(ctx context.Context) ([]entity.ProductProfitability, error)
}
