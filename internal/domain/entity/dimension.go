package entity

import "time"

// Dimension agrupa unidades de medida convertibles entre sí (volumen, longitud, conteo...).
type Dimension struct {
	ID        string
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// UnitOfMeasure es una unidad de medida; pertenece a una sola dimensión.
// A lo sumo una unidad por dimensión tiene IsBase = true.
type UnitOfMeasure struct {
	ID          string
	Name        string
	Symbol      string
	DimensionID string
	IsBase      bool
	Active      bool
	CreatedAt   time.Time
}
