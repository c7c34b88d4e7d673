package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/pkg/validator"
)

// errorCodes traduce errores de dominio a código y estado HTTP. El orden importa:
// los errores de negocio específicos van antes que los genéricos.
var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{domain.ErrMissingBaseUnit, "MISSING_BASE_UNIT", fiber.StatusUnprocessableEntity},
	{domain.ErrMissingConversionFactor, "MISSING_CONVERSION_FACTOR", fiber.StatusUnprocessableEntity},
	{domain.ErrInvalidFactor, "INVALID_FACTOR", fiber.StatusUnprocessableEntity},
	{domain.ErrInvalidAmount, "INVALID_AMOUNT", fiber.StatusUnprocessableEntity},
	{domain.ErrDivisionByZero, "DIVISION_BY_ZERO", fiber.StatusUnprocessableEntity},
	{domain.ErrInvalidQuantity, "INVALID_QUANTITY", fiber.StatusUnprocessableEntity},
	{domain.ErrInsufficientStock, "INSUFFICIENT_STOCK", fiber.StatusConflict},
	{domain.ErrNonMonotonicTime, "NON_MONOTONIC_TIME", fiber.StatusConflict},
	{domain.ErrNotFound, "NOT_FOUND", fiber.StatusNotFound},
	{domain.ErrDuplicate, "DUPLICATE", fiber.StatusConflict},
	{domain.ErrConflict, "CONFLICT", fiber.StatusConflict},
	{domain.ErrInvalidInput, "VALIDATION", fiber.StatusBadRequest},
	{domain.ErrUnauthorized, "UNAUTHORIZED", fiber.StatusUnauthorized},
	{domain.ErrForbidden, "FORBIDDEN", fiber.StatusForbidden},
}

func classify(err error) (string, int) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code, e.status
		}
	}
	return "INTERNAL", fiber.StatusInternalServerError
}

// respondError escribe el error como dto.ErrorResponse. Un lote de compra rechazado
// devuelve 422 con el detalle de cada línea.
func respondError(c *fiber.Ctx, err error) error {
	var batch *domain.BatchError
	if errors.As(err, &batch) {
		details := make([]dto.LineErrorDTO, 0, len(batch.Lines))
		for _, l := range batch.Lines {
			code, _ := classify(l.Err)
			details = append(details, dto.LineErrorDTO{Index: l.Index, ItemID: l.ItemID, Code: code, Message: l.Err.Error()})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "PURCHASE_REJECTED",
			Message: "la compra tiene líneas inválidas; no se registró nada",
			Details: details,
		})
	}

	var stock *domain.StockError
	if errors.As(err, &stock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stock.Error(),
			Details: fiber.Map{"item_id": stock.ItemID, "requested": stock.Requested, "available": stock.Available},
		})
	}

	code, status := classify(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// parseBody decodifica y valida el body. Si falla ya escribió la respuesta y devuelve false.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Validate(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Details: validator.FormatValidationErrors(err),
		})
	}
	return true, nil
}
