package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/application/sales"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
	"github.com/jhoicas/Heladeria-api/pkg/validation"
)

// HeaderIdempotencyKey header opcional para reenvíos seguros de POST /api/ventas.
const HeaderIdempotencyKey = "Idempotency-Key"

// SaleHandler endpoints del motor de ventas.
type SaleHandler struct {
	uc        *sales.UseCase
	validator *validation.Validator
	log       *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, v *validation.Validator, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, validator: v, log: log}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Verifica inventario de todos los ingredientes de la receta, inserta la venta y descuenta cantidad de cada uno en una sola transacción.
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                    false  "Llave de idempotencia"
// @Param        body             body    dto.RegisterSaleRequest   true   "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validator.Struct(in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.RegisterSale(c.UserContext(), GetSession(c), sales.RegisterSaleInput{
		ProductID:      in.ProductID,
		UserID:         in.UserID,
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		IdempotencyKey: strings.TrimSpace(c.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas visibles para el rol
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/ventas [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListSales(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta y restituir inventario
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleReversalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidID(c)
	}
	out, err := h.uc.DeleteSale(c.UserContext(), GetSession(c), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Options godoc
// @Summary      Productos para el formulario de venta
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleProductOption
// @Router       /api/ventas/opciones [get]
func (h *SaleHandler) Options(c *fiber.Ctx) error {
	out, err := h.uc.SaleOptions(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Buyers godoc
// @Summary      Compradores seleccionables
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/ventas/compradores [get]
func (h *SaleHandler) Buyers(c *fiber.Ctx) error {
	out, err := h.uc.ListBuyers(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
