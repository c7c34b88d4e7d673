package entity

import "time"

// LocationInterval registra que una unidad estuvo en Location desde Start hasta End.
// End nil significa intervalo vigente; a lo sumo uno por unidad.
type LocationInterval struct {
	ID         string
	ItemUnitID string
	Location   Location
	State      UnitState
	Start      time.Time
	End        *time.Time
}

// IsOpen indica si es el intervalo vigente.
func (i *LocationInterval) IsOpen() bool { return i.End == nil }
