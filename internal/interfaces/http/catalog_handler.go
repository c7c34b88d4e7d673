package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquinaria-api/internal/application/catalog"
	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
)

// CatalogHandler maneja dimensiones, unidades de medida y equivalencias.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateDimension godoc
// @Summary      Crear dimensión
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateDimensionRequest  true  "code, name"
// @Success      201   {object}  dto.DimensionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/dimensions [post]
func (h *CatalogHandler) CreateDimension(c *fiber.Ctx) error {
	var in dto.CreateDimensionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateDimension(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateUnit godoc
// @Summary      Crear unidad de medida
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUnitRequest  true  "name, symbol, dimension_id, is_base"
// @Success      201   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/units [post]
func (h *CatalogHandler) CreateUnit(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateUnit(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateRelation godoc
// @Summary      Crear equivalencia (1 unidad base = factor unidad relacionada)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUnitRelationRequest  true  "base_unit_id, related_unit_id, factor"
// @Success      201   {object}  dto.UnitRelationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/catalog/relations [post]
func (h *CatalogHandler) CreateRelation(c *fiber.Ctx) error {
	var in dto.CreateUnitRelationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateUnitRelation(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUnits godoc
// @Summary      Unidades de una dimensión
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la dimensión"
// @Success      200  {array}   dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/dimensions/{id}/units [get]
func (h *CatalogHandler) ListUnits(c *fiber.Ctx) error {
	list, err := h.uc.ListUnits(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
