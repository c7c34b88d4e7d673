package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
)

// KardexHandler maneja el kardex de consumibles.
type KardexHandler struct {
	uc *inventory.KardexUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *inventory.KardexUseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// Issue godoc
// @Summary      Registrar salida de consumible
// @Description  Valoriza la salida al costo promedio vigente en la fecha. La cantidad puede venir en
//
//	cualquier unidad de la dimensión del insumo.
//
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "ID del insumo"
// @Param        body  body      dto.IssueRequest  true  "date, quantity, unit_id, reference, machine_id"
// @Success      201   {object}  dto.PostingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/issues [post]
func (h *KardexHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Issue(c.UserContext(), inventory.MovementInput{
		ItemID:    c.Params("id"),
		UserID:    GetUserID(c),
		Date:      in.Date,
		Quantity:  in.Quantity,
		UnitID:    in.UnitID,
		Reference: in.Reference,
		MachineID: in.MachineID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive godoc
// @Summary      Registrar entrada manual de consumible
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "ID del insumo"
// @Param        body  body      dto.ReceiptRequest  true  "date, quantity, unit_id, unit_cost, reference"
// @Success      201   {object}  dto.PostingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/receipts [post]
func (h *KardexHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Receive(c.UserContext(), inventory.MovementInput{
		ItemID:    c.Params("id"),
		UserID:    GetUserID(c),
		Date:      in.Date,
		Quantity:  in.Quantity,
		UnitID:    in.UnitID,
		UnitCost:  in.UnitCost,
		Reference: in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Entries godoc
// @Summary      Kardex del insumo
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id    path      string  true   "ID del insumo"
// @Param        from  query     string  false  "desde (YYYY-MM-DD o RFC3339)"
// @Param        to    query     string  false  "hasta (YYYY-MM-DD o RFC3339)"
// @Success      200   {array}   dto.KardexEntryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/kardex [get]
func (h *KardexHandler) Entries(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.Entries(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ExportPDF godoc
// @Summary      Kardex del insumo en PDF
// @Tags         kardex
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true   "ID del insumo"
// @Param        from  query  string  false  "desde"
// @Param        to    query  string  false  "hasta"
// @Success      200
// @Router       /api/items/{id}/kardex.pdf [get]
func (h *KardexHandler) ExportPDF(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return respondError(c, err)
	}
	b, filename, err := h.uc.ExportPDF(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(b)
}

// Balance godoc
// @Summary      Saldo vigente del insumo
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del insumo"
// @Success      200  {object}  dto.BalanceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/balance [get]
func (h *KardexHandler) Balance(c *fiber.Ctx) error {
	out, err := h.uc.Balance(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseRange lee ?from= y ?to=. Una fecha sin hora en "to" cubre el día completo.
func parseRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	var q dto.DateRange
	if err := c.QueryParser(&q); err != nil {
		return nil, nil, domain.ErrInvalidInput
	}
	if from, err = parseDate(q.From, false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(q.To, true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
