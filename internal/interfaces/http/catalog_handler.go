package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Heladeria-api/internal/application/usecase"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
)

// CatalogHandler catálogo público y vista de calorías.
type CatalogHandler struct {
	uc  *usecase.CatalogUseCase
	log *logger.Logger
}

func NewCatalogHandler(uc *usecase.CatalogUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Catálogo de productos con calorías
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.CatalogItemResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Calories godoc
// @Summary      Calorías totales por producto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CaloriesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/calorias [get]
func (h *CatalogHandler) Calories(c *fiber.Ctx) error {
	out, err := h.uc.Calories(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
