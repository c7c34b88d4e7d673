package repository

import (
	"context"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia de compras.
type PurchaseRepository interface {
	CreateHeader(ctx context.Context, header *entity.PurchaseHeader) error
	CreateLine(ctx context.Context, line *entity.NormalizedPurchaseLine) error
	ListLines(ctx context.Context, purchaseID string) ([]*entity.NormalizedPurchaseLine, error)
	SupplierPrices(ctx context.Context, itemID string) ([]*entity.SupplierPrice, error)
}
