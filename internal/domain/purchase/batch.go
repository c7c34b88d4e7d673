// Package purchase normaliza lotes de compra: convierte cantidades a la unidad base y
// deriva las cuatro formas del monto de cada línea. El lote es todo o nada.
package purchase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/uom"
)

// MaxUnitsPerLine limita las unidades físicas que una línea de repuesto puede crear.
const MaxUnitsPerLine = 10000

// ItemReader es lo mínimo que el procesador necesita del catálogo de items.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}

// Batch es un lote normalizado sin errores, listo para persistir.
type Batch struct {
	Header *entity.PurchaseHeader
	Lines  []*entity.NormalizedPurchaseLine
	Items  map[string]*entity.Item // por ID; un item puede repetirse en varias líneas
}

// Processor compone UnitGraph y Normalizer sobre las líneas de una compra.
type Processor struct {
	items      ItemReader
	graph      *uom.Graph
	normalizer *Normalizer
}

// NewProcessor construye el procesador de lotes.
func NewProcessor(items ItemReader, graph *uom.Graph, normalizer *Normalizer) *Processor {
	return &Processor{items: items, graph: graph, normalizer: normalizer}
}

// Process normaliza todas las líneas. Si alguna falla devuelve *domain.BatchError con todos
// los errores por línea (índice base 1) y ninguna línea normalizada.
// Los errores de infraestructura (catálogo caído) se devuelven tal cual y cortan el lote.
func (p *Processor) Process(ctx context.Context, header *entity.PurchaseHeader, lines []entity.PurchaseLineInput) (*Batch, error) {
	if header == nil || header.Currency == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	out := make([]*entity.NormalizedPurchaseLine, 0, len(lines))
	items := make(map[string]*entity.Item, len(lines))
	var lineErrs []*domain.LineError

	for i, in := range lines {
		idx := i + 1
		line, item, err := p.processLine(ctx, header, in)
		if err != nil {
			if !isBusinessError(err) {
				return nil, fmt.Errorf("línea %d: %w", idx, err)
			}
			lineErrs = append(lineErrs, &domain.LineError{Index: idx, ItemID: in.ItemID, Err: err})
			continue
		}
		items[item.ID] = item
		line.LineIndex = idx
		out = append(out, line)
	}

	if len(lineErrs) > 0 {
		return nil, &domain.BatchError{Lines: lineErrs}
	}
	return &Batch{Header: header, Lines: out, Items: items}, nil
}

func (p *Processor) processLine(ctx context.Context, header *entity.PurchaseHeader, in entity.PurchaseLineInput) (*entity.NormalizedPurchaseLine, *entity.Item, error) {
	currency := in.Currency
	if currency == "" {
		currency = header.Currency
	}
	if currency != header.Currency {
		return nil, nil, fmt.Errorf("%w: moneda %s distinta a la de la compra (%s)", domain.ErrInvalidInput, currency, header.Currency)
	}

	item, err := p.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, in.ItemID)
	}

	res, err := p.graph.ResolveToBase(ctx, item, in.Quantity, in.UnitID)
	if err != nil {
		return nil, nil, err
	}
	if item.Kind == entity.ItemKindRepuesto && res.Quantity.GreaterThan(decimal.NewFromInt(MaxUnitsPerLine)) {
		return nil, nil, fmt.Errorf("%w: máximo %d unidades por línea", domain.ErrInvalidQuantity, MaxUnitsPerLine)
	}

	amounts, err := p.normalizer.Normalize(in.Kind, in.Amount, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	baseUnitCost := amounts.UnitCost
	if !res.Quantity.Equal(in.Quantity) {
		if !res.Quantity.IsPositive() {
			return nil, nil, domain.ErrDivisionByZero
		}
		baseUnitCost = amounts.TotalCost.Div(res.Quantity)
	}

	unitID := in.UnitID
	if unitID == "" {
		unitID = item.DefaultUnitID
	}
	return &entity.NormalizedPurchaseLine{
		ItemID:          item.ID,
		ItemKind:        item.Kind,
		EnteredQuantity: in.Quantity,
		EnteredUnitID:   unitID,
		BaseQuantity:    res.Quantity,
		BaseUnitID:      res.BaseUnitID,
		Currency:        currency,
		UnitValue:       amounts.UnitValue,
		UnitCost:        amounts.UnitCost,
		TotalValue:      amounts.TotalValue,
		TotalCost:       amounts.TotalCost,
		BaseUnitCost:    baseUnitCost,
	}, item, nil
}

// UnitCount devuelve cuántas unidades físicas genera una línea de repuesto.
func UnitCount(line *entity.NormalizedPurchaseLine) int {
	if line.ItemKind != entity.ItemKindRepuesto {
		return 0
	}
	return int(line.BaseQuantity.Truncate(0).IntPart())
}
