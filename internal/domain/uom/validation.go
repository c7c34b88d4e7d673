package uom

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// ValidateRelation verifica una equivalencia antes de registrarla en el catálogo:
// ambas unidades en la misma dimensión, la primera debe ser la base y el factor positivo.
func ValidateRelation(base, related *entity.UnitOfMeasure, factor decimal.Decimal) error {
	if !factor.IsPositive() {
		return domain.ErrInvalidFactor
	}
	if base.ID == related.ID {
		return fmt.Errorf("%w: la unidad relacionada debe ser distinta de la base", domain.ErrInvalidInput)
	}
	if base.DimensionID != related.DimensionID {
		return fmt.Errorf("%w: las unidades pertenecen a dimensiones distintas", domain.ErrInvalidInput)
	}
	if !base.IsBase {
		return fmt.Errorf("%w: la unidad %s no es la base de su dimensión", domain.ErrMissingBaseUnit, base.ID)
	}
	return nil
}
