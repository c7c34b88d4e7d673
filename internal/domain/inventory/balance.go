package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// Balance es el saldo corriente de un kardex: cantidad en unidad base y costo acumulado.
type Balance struct {
	Quantity decimal.Decimal
	Cost     decimal.Decimal
	LastDate time.Time
}

// BalanceOf toma el saldo resultante de una fila del kardex.
func BalanceOf(e *entity.KardexEntry) Balance {
	if e == nil {
		return Balance{}
	}
	return Balance{Quantity: e.BalanceQuantity, Cost: e.BalanceCost, LastDate: e.Date}
}

// AvgUnitCost devuelve Cost/Quantity, o cero sin stock.
func (b Balance) AvgUnitCost() decimal.Decimal {
	if !b.Quantity.IsPositive() {
		return decimal.Zero
	}
	return b.Cost.Div(b.Quantity)
}

// apply aplica la fila e sobre el saldo b y completa sus columnas derivadas.
// Las salidas se valorizan al promedio vigente; una salida que agota el stock deja costo cero.
func (b Balance) apply(e *entity.KardexEntry) (Balance, error) {
	next := Balance{LastDate: e.Date}
	switch e.Kind {
	case entity.EntryKindReceipt:
		e.AvgUnitCost = WeightedAverageCost(b.Quantity, b.Cost, e.QuantityIn, e.UnitCost)
		next.Quantity = b.Quantity.Add(e.QuantityIn)
		next.Cost = b.Cost.Add(e.QuantityIn.Mul(e.UnitCost))
	case entity.EntryKindIssue:
		if e.QuantityOut.GreaterThan(b.Quantity) {
			return b, &domain.StockError{ItemID: e.ItemID, Requested: e.QuantityOut, Available: b.Quantity}
		}
		avg := b.AvgUnitCost()
		e.UnitCost = avg
		next.Quantity = b.Quantity.Sub(e.QuantityOut)
		if next.Quantity.IsZero() {
			next.Cost = decimal.Zero
		} else {
			next.Cost = b.Cost.Sub(e.QuantityOut.Mul(avg))
		}
		e.AvgUnitCost = next.AvgUnitCost()
	default:
		return b, domain.ErrInvalidInput
	}
	e.OpeningQuantity = b.Quantity
	e.BalanceQuantity = next.Quantity
	e.BalanceCost = next.Cost
	return next, nil
}
