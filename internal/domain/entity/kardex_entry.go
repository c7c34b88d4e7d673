package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de kardex.
type EntryKind string

const (
	EntryKindReceipt EntryKind = "RECEIPT" // entrada
	EntryKindIssue   EntryKind = "ISSUE"   // salida
)

// KardexEntry es una fila del kardex de un consumible. Los hechos del movimiento
// (fecha, tipo, cantidades, costo de entrada) no cambian después de creada; los saldos
// se derivan del saldo anterior.
type KardexEntry struct {
	ID              string
	ItemID          string
	Seq             int64
	Date            time.Time
	Kind            EntryKind
	QuantityIn      decimal.Decimal
	QuantityOut     decimal.Decimal
	UnitCost        decimal.Decimal // costo de entrada o costo promedio aplicado a la salida
	OpeningQuantity decimal.Decimal
	BalanceQuantity decimal.Decimal
	BalanceCost     decimal.Decimal
	AvgUnitCost     decimal.Decimal
	Reference       string // comprobante u orden de trabajo
	MachineID       string
	PurchaseLineID  string
	CreatedAt       time.Time
	CreatedBy       string
}

// Quantity devuelve la cantidad movida (entrada o salida).
func (e *KardexEntry) Quantity() decimal.Decimal {
	if e.Kind == EntryKindIssue {
		return e.QuantityOut
	}
	return e.QuantityIn
}

// KardexBalance es el saldo materializado del kardex de un item (fila bloqueable por item).
type KardexBalance struct {
	ItemID    string
	Quantity  decimal.Decimal
	Cost      decimal.Decimal
	LastDate  time.Time
	UpdatedAt time.Time
}

// AvgUnitCost devuelve Cost/Quantity, o cero si no hay stock.
func (b *KardexBalance) AvgUnitCost() decimal.Decimal {
	if !b.Quantity.IsPositive() {
		return decimal.Zero
	}
	return b.Cost.Div(b.Quantity)
}
