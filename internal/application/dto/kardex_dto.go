package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueRequest body para POST /api/items/:id/issues (salida de consumible).
type IssueRequest struct {
	Date      time.Time       `json:"date" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitID    string          `json:"unit_id,omitempty" validate:"omitempty,uuid"`
	Reference string          `json:"reference,omitempty" validate:"max=80"`
	MachineID string          `json:"machine_id,omitempty" validate:"omitempty,uuid"`
}

// ReceiptRequest body para POST /api/items/:id/receipts (entrada manual o de regularización).
// UnitCost es el costo por unidad ingresada (unit_id).
type ReceiptRequest struct {
	Date      time.Time       `json:"date" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitID    string          `json:"unit_id,omitempty" validate:"omitempty,uuid"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	Reference string          `json:"reference,omitempty" validate:"max=80"`
}

// KardexEntryDTO fila del kardex.
type KardexEntryDTO struct {
	ID              string          `json:"id"`
	Seq             int64           `json:"seq"`
	Date            time.Time       `json:"date"`
	Kind            string          `json:"kind"`
	QuantityIn      decimal.Decimal `json:"quantity_in"`
	QuantityOut     decimal.Decimal `json:"quantity_out"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	OpeningQuantity decimal.Decimal `json:"opening_quantity"`
	BalanceQuantity decimal.Decimal `json:"balance_quantity"`
	BalanceCost     decimal.Decimal `json:"balance_cost"`
	AvgUnitCost     decimal.Decimal `json:"avg_unit_cost"`
	Reference       string          `json:"reference,omitempty"`
	MachineID       string          `json:"machine_id,omitempty"`
	PurchaseLineID  string          `json:"purchase_line_id,omitempty"`
}

// PostingResponse resultado de registrar un movimiento: la fila nueva y cuántas filas
// posteriores se recalcularon.
type PostingResponse struct {
	Entry    KardexEntryDTO `json:"entry"`
	Restated int            `json:"restated"`
}

// BalanceDTO saldo del kardex: cantidad en unidad base y costo promedio.
type BalanceDTO struct {
	ItemID      string          `json:"item_id"`
	BaseUnitID  string          `json:"base_unit_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	AvgUnitCost decimal.Decimal `json:"avg_unit_cost"`
	LastDate    *time.Time      `json:"last_date,omitempty"`
}
