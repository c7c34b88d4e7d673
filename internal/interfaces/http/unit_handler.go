package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// UnitHandler maneja el ciclo de vida de las unidades serializadas de repuestos.
type UnitHandler struct {
	uc *inventory.UnitUseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *inventory.UnitUseCase) *UnitHandler {
	return &UnitHandler{uc: uc}
}

// Transition godoc
// @Summary      Mover unidad / cambiar estado
// @Description  Cierra el intervalo vigente y abre uno nuevo. Sin warehouse_id, machine_id ni worker_id
//
//	la unidad queda sin ubicación.
//
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID de la unidad"
// @Param        body  body      dto.TransitionRequest  true  "state, ubicación, at"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units/{id}/transitions [post]
func (h *UnitHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	loc, ok := entity.ParseLocation(in.WarehouseID, in.MachineID, in.WorkerID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "solo se admite una ubicación"})
	}
	out, err := h.uc.Transition(c.UserContext(), inventory.TransitionInput{
		UnitID:   c.Params("id"),
		UserID:   GetUserID(c),
		State:    entity.UnitState(in.State),
		Location: loc,
		At:       in.At,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de ubicaciones de la unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la unidad"
// @Success      200  {array}   dto.IntervalDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id}/history [get]
func (h *UnitHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CurrentLocation godoc
// @Summary      Ubicación vigente de la unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la unidad"
// @Success      200  {object}  dto.LocationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id}/location [get]
func (h *UnitHandler) CurrentLocation(c *fiber.Ctx) error {
	out, err := h.uc.CurrentLocation(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AssignableUnits godoc
// @Summary      Unidades asignables del repuesto (en almacén y operativas)
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del insumo"
// @Success      200  {array}   dto.ItemUnitDTO
// @Router       /api/items/{id}/assignable-units [get]
func (h *UnitHandler) AssignableUnits(c *fiber.Ctx) error {
	list, err := h.uc.AssignableUnits(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MachineCostCenter godoc
// @Summary      Centro de costo de la maquinaria
// @Tags         machines
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la maquinaria"
// @Success      200  {object}  dto.CostCenterDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/machines/{id}/cost-center [get]
func (h *UnitHandler) MachineCostCenter(c *fiber.Ctx) error {
	out, err := h.uc.MachineCostCenter(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
