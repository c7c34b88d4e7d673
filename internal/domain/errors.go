package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Conversión de unidades y costeo de líneas de compra.
	ErrMissingBaseUnit         = errors.New("la dimensión no tiene unidad base")
	ErrMissingConversionFactor = errors.New("no existe factor de conversión activo")
	ErrInvalidFactor           = errors.New("el factor de conversión debe ser mayor a cero")
	ErrInvalidAmount           = errors.New("el monto debe ser mayor a cero")
	ErrDivisionByZero          = errors.New("división entre cantidad cero")

	// Kardex y ciclo de vida de unidades.
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNonMonotonicTime  = errors.New("la fecha del movimiento es anterior al último movimiento")
)

// ConversionError describe un fallo de UnitGraph con el contexto de la línea.
type ConversionError struct {
	Err         error
	ItemID      string
	UnitID      string
	BaseUnitID  string
	DimensionID string
}

func (e *ConversionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingBaseUnit):
		return fmt.Sprintf("%v: item %s, dimensión %s", e.Err, e.ItemID, e.DimensionID)
	case errors.Is(e.Err, ErrMissingConversionFactor):
		return fmt.Sprintf("%v: item %s, de %s a %s", e.Err, e.ItemID, e.UnitID, e.BaseUnitID)
	}
	return fmt.Sprintf("%v: item %s, unidad %s", e.Err, e.ItemID, e.UnitID)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// LineError asocia un error al índice (base 1) de la línea de compra que lo produjo.
type LineError struct {
	Index  int
	ItemID string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// BatchError agrupa todos los errores de un lote de compra rechazado.
type BatchError struct {
	Lines []*LineError
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		msgs = append(msgs, l.Error())
	}
	return "compra rechazada: " + strings.Join(msgs, "; ")
}

// Unwrap permite errors.Is/As sobre cualquiera de las líneas.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Lines))
	for _, l := range e.Lines {
		errs = append(errs, l)
	}
	return errs
}

// StockError detalla una salida que excede el saldo del kardex.
type StockError struct {
	ItemID    string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v: item %s, solicitado %s, disponible %s",
		ErrInsufficientStock, e.ItemID, e.Requested.String(), e.Available.String())
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// TimeOrderError detalla una transición con fecha anterior al inicio del intervalo vigente.
type TimeOrderError struct {
	UnitID string
	At     time.Time
	Since  time.Time
}

func (e *TimeOrderError) Error() string {
	return fmt.Sprintf("%v: unidad %s, %s < %s",
		ErrNonMonotonicTime, e.UnitID, e.At.Format(time.RFC3339), e.Since.Format(time.RFC3339))
}

func (e *TimeOrderError) Unwrap() error { return ErrNonMonotonicTime }
