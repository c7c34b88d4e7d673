package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante de compra.
const (
	DocumentTypeFactura = "FACTURA"
	DocumentTypeBoleta  = "BOLETA"
)

// Monedas admitidas en compras. El tipo de cambio solo se registra, no se aplica.
const (
	CurrencyPEN = "PEN"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// AmountKind indica en qué forma se ingresó el monto de una línea de compra.
type AmountKind string

const (
	AmountUnitValue  AmountKind = "UNIT_VALUE"  // valor unitario sin impuesto
	AmountUnitCost   AmountKind = "UNIT_COST"   // costo unitario con impuesto
	AmountTotalValue AmountKind = "TOTAL_VALUE" // valor total sin impuesto
	AmountTotalCost  AmountKind = "TOTAL_COST"  // costo total con impuesto
)

// Valid indica si la forma del monto es conocida.
func (k AmountKind) Valid() bool {
	switch k {
	case AmountUnitValue, AmountUnitCost, AmountTotalValue, AmountTotalCost:
		return true
	}
	return false
}

// PurchaseHeader es la cabecera compartida por todas las líneas de un lote de compra.
type PurchaseHeader struct {
	ID           string
	Date         time.Time
	SupplierID   string
	DocumentType string
	DocumentCode string
	Currency     string
	ExchangeRate *decimal.Decimal // solo registro
	WarehouseID  string           // almacén de recepción de repuestos; vacío = sin ubicación
	CreatedAt    time.Time
	CreatedBy    string
}

// Reference devuelve el texto del comprobante usado en el kardex ("FACTURA F001-123").
func (h *PurchaseHeader) Reference() string {
	if h.DocumentType == "" {
		return h.DocumentCode
	}
	return h.DocumentType + " " + h.DocumentCode
}

// PurchaseLineInput es una línea tal como se ingresa: cantidad en cualquier unidad y un monto etiquetado.
type PurchaseLineInput struct {
	ItemID   string
	Quantity decimal.Decimal
	UnitID   string
	Kind     AmountKind
	Amount   decimal.Decimal
	Currency string
}

// NormalizedPurchaseLine es la línea lista para persistir: cantidad en unidad base y las cuatro formas del monto.
// UnitValue/UnitCost son por unidad ingresada; BaseUnitCost es el costo por unidad base
// (TotalCost / BaseQuantity) con el que la línea entra al kardex.
type NormalizedPurchaseLine struct {
	ID              string
	PurchaseID      string
	LineIndex       int
	ItemID          string
	ItemKind        ItemKind
	EnteredQuantity decimal.Decimal
	EnteredUnitID   string
	BaseQuantity    decimal.Decimal
	BaseUnitID      string
	Currency        string
	UnitValue       decimal.Decimal
	UnitCost        decimal.Decimal
	TotalValue      decimal.Decimal
	TotalCost       decimal.Decimal
	BaseUnitCost    decimal.Decimal
}

// SupplierPrice resume el valor unitario promedio pagado a un proveedor por un item.
type SupplierPrice struct {
	SupplierID   string
	SupplierName string
	Currency     string
	AvgUnitValue decimal.Decimal
	Purchases    int
}
