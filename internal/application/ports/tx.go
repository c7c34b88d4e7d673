package ports

import (
	"context"

	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Items     repository.ItemRepository
	Catalog   repository.CatalogRepository
	Purchases repository.PurchaseRepository
	Kardex    repository.KardexRepository
	Units     repository.ItemUnitRepository
	Intervals repository.LocationIntervalRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; en otro caso Commit.
// Garantiza la atomicidad de compras, kardex y transiciones de unidades.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
