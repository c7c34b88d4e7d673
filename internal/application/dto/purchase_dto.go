package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRequest body para POST /api/purchases: cabecera y líneas de un comprobante.
type PurchaseRequest struct {
	Date         time.Time             `json:"date" validate:"required"`
	SupplierID   string                `json:"supplier_id" validate:"required"`
	DocumentType string                `json:"document_type" validate:"required,oneof=FACTURA BOLETA"`
	DocumentCode string                `json:"document_code" validate:"required,max=40"`
	Currency     string                `json:"currency" validate:"omitempty,oneof=PEN USD EUR"`
	ExchangeRate *decimal.Decimal      `json:"exchange_rate,omitempty" validate:"omitempty,gt=0"`
	WarehouseID  string                `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	Lines        []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineRequest línea de compra: cantidad en cualquier unidad y un monto en una de sus cuatro formas.
type PurchaseLineRequest struct {
	ItemID     string          `json:"item_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" validate:"lte=10000"`
	UnitID     string          `json:"unit_id,omitempty" validate:"omitempty,uuid"`
	AmountKind string          `json:"amount_kind" validate:"required,oneof=UNIT_VALUE UNIT_COST TOTAL_VALUE TOTAL_COST"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty" validate:"omitempty,oneof=PEN USD EUR"`
}

// PurchaseLineResponse línea normalizada.
type PurchaseLineResponse struct {
	ID              string          `json:"id"`
	LineIndex       int             `json:"line_index"`
	ItemID          string          `json:"item_id"`
	ItemKind        string          `json:"item_kind"`
	EnteredQuantity decimal.Decimal `json:"entered_quantity"`
	EnteredUnitID   string          `json:"entered_unit_id"`
	BaseQuantity    decimal.Decimal `json:"base_quantity"`
	BaseUnitID      string          `json:"base_unit_id"`
	Currency        string          `json:"currency"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	BaseUnitCost    decimal.Decimal `json:"base_unit_cost"`
	UnitIDs         []string        `json:"unit_ids,omitempty"`
	Serials         []string        `json:"serials,omitempty"`
	KardexEntryID   string          `json:"kardex_entry_id,omitempty"`
}

// PurchaseResponse resultado de registrar una compra.
type PurchaseResponse struct {
	ID           string                 `json:"id"`
	Date         time.Time              `json:"date"`
	SupplierID   string                 `json:"supplier_id"`
	DocumentType string                 `json:"document_type"`
	DocumentCode string                 `json:"document_code"`
	Currency     string                 `json:"currency"`
	TaxFactor    decimal.Decimal        `json:"tax_factor"`
	TotalValue   decimal.Decimal        `json:"total_value"`
	TotalCost    decimal.Decimal        `json:"total_cost"`
	Lines        []PurchaseLineResponse `json:"lines"`
}

// SupplierPriceDTO promedio de valor unitario pagado a un proveedor.
type SupplierPriceDTO struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Currency     string          `json:"currency"`
	AvgUnitValue decimal.Decimal `json:"avg_unit_value"`
	Purchases    int             `json:"purchases"`
}
