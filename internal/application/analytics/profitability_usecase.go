// Package analytics contiene los reportes de solo lectura sobre las vistas de la BD.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProfitabilityPDFGenerator genera la representación PDF del informe de rentabilidad.
type ProfitabilityPDFGenerator interface {
	GenerateProfitabilityPDF(ctx context.Context, report *dto.ProfitabilityReport, generatedAt time.Time) ([]byte, error)
}

// ProfitabilityUseCase informe de rentabilidad por producto (v_rentabilidad_producto).
type ProfitabilityUseCase struct {
	reports   repository.ReportRepository
	generator ProfitabilityPDFGenerator
	now       func() time.Time
}

// NewProfitabilityUseCase construye el caso de uso. generator puede ser nil si no se exporta PDF.
func NewProfitabilityUseCase(reports repository.ReportRepository, generator ProfitabilityPDFGenerator) *ProfitabilityUseCase {
	return &ProfitabilityUseCase{reports: reports, generator: generator, now: time.Now}
}

// Report filas ordenadas por rentabilidad descendente y la suma de la columna.
func (uc *ProfitabilityUseCase) Report(ctx context.Context) (*dto.ProfitabilityReport, error) {
	rows, err := uc.reports.Profitability(ctx)
	if err != nil {
		return nil, fmt.Errorf("rentabilidad: %w", err)
	}
	out := &dto.ProfitabilityReport{Rows: make([]dto.ProfitabilityRow, 0, len(rows)), TotalProfitability: decimal.Zero}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.ProfitabilityRow{
			ProductID:     r.ProductID,
			Name:          r.Name,
			PublicPrice:   r.PublicPrice,
			Cost:          r.Cost,
			Profitability: r.Profitability,
		})
		out.TotalProfitability = out.TotalProfitability.Add(r.Profitability)
	}
	return out, nil
}

// ReportPDF mismo informe renderizado en PDF. Devuelve bytes y nombre de archivo.
func (uc *ProfitabilityUseCase) ReportPDF(ctx context.Context) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("rentabilidad: generador PDF no configurado")
	}
	report, err := uc.Report(ctx)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	pdf, err := uc.generator.GenerateProfitabilityPDF(ctx, report, now)
	if err != nil {
		return nil, "", fmt.Errorf("rentabilidad: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("rentabilidad_%s.pdf", now.Format("20060102")), nil
}
