package inventory

import (
	"time"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// Change es el efecto de una transición sobre el historial de ubicaciones.
// Closed es el intervalo vigente cerrado (nil si la unidad no tenía ubicación);
// Opened es el nuevo intervalo (nil si la nueva ubicación es ninguna).
type Change struct {
	Closed *entity.LocationInterval
	Opened *entity.LocationInterval
}

// Transition mueve la unidad al estado y ubicación indicados en el instante at.
// open es el intervalo vigente de la unidad (nil si no tiene). Cierra open en at, abre
// un intervalo nuevo si loc no es vacía y actualiza la caché de la unidad.
// at no puede ser anterior al inicio de open ni a la última transición de la unidad:
// una unidad sin ubicación (pasó a ninguna en t2) no acepta transiciones con fecha < t2.
func Transition(unit *entity.ItemUnit, open *entity.LocationInterval, state entity.UnitState, loc entity.Location, at time.Time) (Change, error) {
	if !state.Valid() || !loc.Valid() {
		return Change{}, domain.ErrInvalidInput
	}
	if open != nil && (!open.IsOpen() || open.ItemUnitID != unit.ID) {
		return Change{}, domain.ErrConflict
	}
	if open == nil && !unit.Location.IsNone() {
		return Change{}, domain.ErrConflict
	}
	if open != nil && at.Before(open.Start) {
		return Change{}, &domain.TimeOrderError{UnitID: unit.ID, At: at, Since: open.Start}
	}
	if at.Before(unit.LastTransition) {
		return Change{}, &domain.TimeOrderError{UnitID: unit.ID, At: at, Since: unit.LastTransition}
	}

	var ch Change
	if open != nil {
		end := at
		open.End = &end
		ch.Closed = open
	}
	if !loc.IsNone() {
		ch.Opened = &entity.LocationInterval{
			ItemUnitID: unit.ID,
			Location:   loc,
			State:      state,
			Start:      at,
		}
	}

	unit.State = state
	unit.Location = loc
	unit.LastTransition = at
	unit.LocationSince = time.Time{}
	if !loc.IsNone() {
		unit.LocationSince = at
	}
	return ch, nil
}
