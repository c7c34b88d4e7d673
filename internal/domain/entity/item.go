package entity

import "time"

// Tipos de insumo.
type ItemKind string

const (
	ItemKindRepuesto   ItemKind = "REPUESTO"   // serializado: una ItemUnit por pieza física
	ItemKindConsumible ItemKind = "CONSUMIBLE" // a granel: se controla por kardex
)

// Valid indica si el tipo de insumo es conocido.
func (k ItemKind) Valid() bool {
	return k == ItemKindRepuesto || k == ItemKindConsumible
}

// Item representa un insumo del catálogo (repuesto o consumible).
// DimensionID solo aplica a consumibles; LastSerial es el correlativo usado para numerar unidades.
type Item struct {
	ID            string
	Code          string // código único, prefijo de las series
	Name          string
	Kind          ItemKind
	DimensionID   string
	DefaultUnitID string
	LastSerial    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsConsumable indica si el item se valoriza por kardex.
func (i *Item) IsConsumable() bool { return i.Kind == ItemKindConsumible }
