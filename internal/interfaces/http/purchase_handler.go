package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/application/purchase"
)

// PurchaseHandler maneja el registro de comprobantes de compra.
type PurchaseHandler struct {
	uc *purchase.RegisterPurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchase.RegisterPurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar compra
// @Description  Normaliza todas las líneas (cantidad a unidad base, valor/costo unitario y total)
//
//	y las registra en una sola transacción. Si alguna línea falla no se registra nada
//	y details lista cada línea rechazada.
//
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PurchaseRequest  true  "cabecera del comprobante y líneas"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Register(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SupplierPrices godoc
// @Summary      Valor unitario promedio por proveedor
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del insumo"
// @Success      200  {array}   dto.SupplierPriceDTO
// @Router       /api/items/{id}/suppliers [get]
func (h *PurchaseHandler) SupplierPrices(c *fiber.Ctx) error {
	list, err := h.uc.SupplierPrices(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
