package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Heladeria-api/internal/application/analytics"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
)

// ReportHandler informe de rentabilidad (JSON y PDF).
type ReportHandler struct {
	uc  *analytics.ProfitabilityUseCase
	log *logger.Logger
}

func NewReportHandler(uc *analytics.ProfitabilityUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Profitability godoc
// @Summary      Rentabilidad por producto
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfitabilityReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/rentabilidad [get]
func (h *ReportHandler) Profitability(c *fiber.Ctx) error {
	out, err := h.uc.Report(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ProfitabilityPDF godoc
// @Summary      Rentabilidad por producto en PDF
// @Tags         reportes
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/rentabilidad/pdf [get]
func (h *ReportHandler) ProfitabilityPDF(c *fiber.Ctx) error {
	body, filename, err := h.uc.ReportPDF(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}
