package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitRelation define la equivalencia 1 BaseUnit = Factor RelatedUnit dentro de una dimensión.
// cantidadRelacionada = cantidadBase * Factor, por lo que convertir hacia la base divide.
type UnitRelation struct {
	ID            string
	DimensionID   string
	BaseUnitID    string
	RelatedUnitID string
	Factor        decimal.Decimal
	Active        bool
	CreatedAt     time.Time
}
