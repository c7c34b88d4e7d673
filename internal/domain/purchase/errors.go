package purchase

import (
	"errors"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
)

var businessErrors = []error{
	domain.ErrMissingBaseUnit,
	domain.ErrMissingConversionFactor,
	domain.ErrInvalidFactor,
	domain.ErrInvalidAmount,
	domain.ErrDivisionByZero,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidInput,
	domain.ErrNotFound,
	domain.ErrDuplicate,
}

// isBusinessError distingue los errores corregibles por el usuario de los de infraestructura.
func isBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
