package purchase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// DefaultTaxFactor es el factor IGV (18%) aplicado para pasar de valor a costo.
var DefaultTaxFactor = decimal.RequireFromString("1.18")

// Amounts son las cuatro formas equivalentes del monto de una línea.
// UnitCost = UnitValue * T, TotalX = UnitX * q.
type Amounts struct {
	UnitValue  decimal.Decimal
	UnitCost   decimal.Decimal
	TotalValue decimal.Decimal
	TotalCost  decimal.Decimal
}

// Normalizer deriva las cuatro formas del monto a partir de una sola.
type Normalizer struct {
	taxFactor decimal.Decimal
}

// NewNormalizer construye el normalizador; un factor no positivo usa DefaultTaxFactor.
func NewNormalizer(taxFactor decimal.Decimal) *Normalizer {
	if !taxFactor.IsPositive() {
		taxFactor = DefaultTaxFactor
	}
	return &Normalizer{taxFactor: taxFactor}
}

// TaxFactor devuelve el factor de impuesto en uso.
func (n *Normalizer) TaxFactor() decimal.Decimal { return n.taxFactor }

// Normalize calcula unitValue, unitCost, totalValue y totalCost para la cantidad q.
//
//	UNIT_VALUE  m      m·T      m·q      m·T·q
//	UNIT_COST   m/T    m        (m/T)·q  m·q
//	TOTAL_VALUE m/q    (m/q)·T  m        (m/q)·T·q
//	TOTAL_COST  m/q/T  m/q      m/q/T·q  m
func (n *Normalizer) Normalize(kind entity.AmountKind, amount, quantity decimal.Decimal) (Amounts, error) {
	if !kind.Valid() {
		return Amounts{}, domain.ErrInvalidInput
	}
	if !amount.IsPositive() {
		return Amounts{}, domain.ErrInvalidAmount
	}
	if quantity.IsNegative() {
		return Amounts{}, domain.ErrInvalidQuantity
	}
	if quantity.IsZero() {
		return Amounts{}, domain.ErrDivisionByZero
	}

	t := n.taxFactor
	var a Amounts
	switch kind {
	case entity.AmountUnitValue:
		a.UnitValue = amount
		a.UnitCost = amount.Mul(t)
		a.TotalValue = amount.Mul(quantity)
		a.TotalCost = a.UnitCost.Mul(quantity)
	case entity.AmountUnitCost:
		a.UnitValue = amount.Div(t)
		a.UnitCost = amount
		a.TotalValue = a.UnitValue.Mul(quantity)
		a.TotalCost = amount.Mul(quantity)
	case entity.AmountTotalValue:
		a.UnitValue = amount.Div(quantity)
		a.UnitCost = a.UnitValue.Mul(t)
		a.TotalValue = amount
		a.TotalCost = a.UnitCost.Mul(quantity)
	case entity.AmountTotalCost:
		a.UnitCost = amount.Div(quantity)
		a.UnitValue = a.UnitCost.Div(t)
		a.TotalValue = a.UnitValue.Mul(quantity)
		a.TotalCost = amount
	}
	return a, nil
}
