// Package uom resuelve cantidades expresadas en cualquier unidad de medida hacia la
// unidad base de su dimensión.
//
// El catálogo guarda equivalencias en un solo sentido: 1 unidad base = Factor unidades
// relacionadas. Convertir de la unidad relacionada a la base divide entre Factor.
package uom

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

// Resolution es una cantidad expresada en la unidad base.
type Resolution struct {
	Quantity   decimal.Decimal
	BaseUnitID string
}

// Graph resuelve conversiones consultando el catálogo. No guarda estado propio.
type Graph struct {
	catalog repository.CatalogReader
}

// NewGraph construye el resolvedor sobre un lector de catálogo.
func NewGraph(catalog repository.CatalogReader) *Graph {
	return &Graph{catalog: catalog}
}

// ResolveToBase convierte (quantity, unitID) a la unidad base de la dimensión del item.
// Para repuestos la cantidad es un conteo de piezas y pasa sin cambios.
func (g *Graph) ResolveToBase(ctx context.Context, item *entity.Item, quantity decimal.Decimal, unitID string) (Resolution, error) {
	if quantity.IsNegative() {
		return Resolution{}, conversionErr(domain.ErrInvalidQuantity, item, unitID, "")
	}
	if unitID == "" {
		unitID = item.DefaultUnitID
	}

	if !item.IsConsumable() {
		if !quantity.Equal(quantity.Truncate(0)) {
			return Resolution{}, conversionErr(domain.ErrInvalidQuantity, item, unitID, "")
		}
		return Resolution{Quantity: quantity, BaseUnitID: unitID}, nil
	}

	base, rel, err := g.lookup(ctx, item, unitID)
	if err != nil {
		return Resolution{}, err
	}
	if rel == nil {
		return Resolution{Quantity: quantity, BaseUnitID: base.ID}, nil
	}
	return Resolution{Quantity: quantity.Div(rel.Factor), BaseUnitID: base.ID}, nil
}

// fromBase hace la conversión inversa: cantidad en unidad base -> cantidad en unitID.
func (g *Graph) fromBase(ctx context.Context, item *entity.Item, baseQuantity decimal.Decimal, unitID string) (decimal.Decimal, error) {
	if !item.IsConsumable() {
		return baseQuantity, nil
	}
	_, rel, err := g.lookup(ctx, item, unitID)
	if err != nil {
		return decimal.Zero, err
	}
	if rel == nil {
		return baseQuantity, nil
	}
	return baseQuantity.Mul(rel.Factor), nil
}

// lookup devuelve la unidad base y la relación base->unitID (nil si unitID ya es la base).
func (g *Graph) lookup(ctx context.Context, item *entity.Item, unitID string) (*entity.UnitOfMeasure, *entity.UnitRelation, error) {
	base, err := g.catalog.GetBaseUnit(ctx, item.DimensionID)
	if err != nil {
		return nil, nil, err
	}
	if base == nil {
		return nil, nil, conversionErr(domain.ErrMissingBaseUnit, item, unitID, "")
	}
	if unitID == "" || unitID == base.ID {
		return base, nil, nil
	}

	rel, err := g.catalog.GetUnitRelation(ctx, base.ID, unitID)
	if err != nil {
		return nil, nil, err
	}
	if rel == nil || !rel.Active {
		return nil, nil, conversionErr(domain.ErrMissingConversionFactor, item, unitID, base.ID)
	}
	// El catálogo rechaza factores <= 0; aquí se evita una división inválida si llegara uno.
	if !rel.Factor.IsPositive() {
		return nil, nil, conversionErr(domain.ErrInvalidFactor, item, unitID, base.ID)
	}
	return base, rel, nil
}

func conversionErr(err error, item *entity.Item, unitID, baseUnitID string) error {
	return &domain.ConversionError{
		Err:         err,
		ItemID:      item.ID,
		UnitID:      unitID,
		BaseUnitID:  baseUnitID,
		DimensionID: item.DimensionID,
	}
}
