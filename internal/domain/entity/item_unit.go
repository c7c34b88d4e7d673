package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una unidad de repuesto. Cualquier estado es alcanzable desde cualquier otro.
type UnitState string

const (
	UnitStateNuevo       UnitState = "NUEVO"
	UnitStateUsado       UnitState = "USADO"
	UnitStateInoperativo UnitState = "INOPERATIVO"
	UnitStateReparado    UnitState = "REPARADO"
)

// Valid indica si el estado es conocido.
func (s UnitState) Valid() bool {
	switch s {
	case UnitStateNuevo, UnitStateUsado, UnitStateInoperativo, UnitStateReparado:
		return true
	}
	return false
}

// ItemUnit es una pieza física serializada de un repuesto.
// State, Location y LocationSince son la caché del intervalo vigente.
type ItemUnit struct {
	ID              string
	ItemID          string
	Serial          string
	State           UnitState
	Location        Location
	LocationSince   time.Time // inicio del intervalo abierto; cero si no tiene ubicación
	LastTransition  time.Time // última transición aplicada; cero si nunca se movió
	PurchaseLineID  string
	AcquisitionCost decimal.Decimal // costo unitario (con impuesto) de la línea de compra
	CreatedAt       time.Time
}
