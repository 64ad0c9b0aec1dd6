package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/application/usecase"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
)

// EditorHandler editor por pestañas (productos, ingredientes, relaciones).
type EditorHandler struct {
	uc  *usecase.EditorUseCase
	log *logger.Logger
}

func NewEditorHandler(uc *usecase.EditorUseCase, log *logger.Logger) *EditorHandler {
	return &EditorHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Tabla completa de la pestaña
// @Tags         editor
// @Security     Bearer
// @Produce      json
// @Param        tab  path  string  true  "productos | ingredientes | relaciones"
// @Success      200  {object}  dto.EditorTableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/editor/{tab} [get]
func (h *EditorHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("tab"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Alta (sin id) o edición (con id) en la pestaña
// @Tags         editor
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        tab   path  string                 true  "productos | ingredientes | relaciones"
// @Param        body  body  dto.EditorSaveRequest  true  "Formulario"
// @Success      200   {object}  dto.EditorTableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/editor/{tab} [post]
func (h *EditorHandler) Save(c *fiber.Ctx) error {
	var in dto.EditorSaveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Save(c.UserContext(), c.Params("tab"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar fila de la pestaña
// @Tags         editor
// @Security     Bearer
// @Produce      json
// @Param        tab  path  string  true  "productos | ingredientes | relaciones"
// @Param        id   path  int     true  "ID"
// @Success      200  {object}  dto.EditorTableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/editor/{tab}/{id} [delete]
func (h *EditorHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidID(c)
	}
	out, err := h.uc.Delete(c.UserContext(), c.Params("tab"), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
