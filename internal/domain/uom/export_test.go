package uom

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

func (g *Graph) FromBase(ctx context.Context, item *entity.Item, baseQuantity decimal.Decimal, unitID string) (decimal.Decimal, error) {
	return g.fromBase(ctx, item, baseQuantity, unitID)
}
