package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// KardexRepository define el puerto de persistencia del kardex de consumibles.
// Las filas nunca se eliminan; RestateBalances solo reescribe columnas derivadas (saldos).
type KardexRepository interface {
	Append(ctx context.Context, entry *entity.KardexEntry) error
	// GetBalance devuelve el saldo materializado; saldo cero si el item no tiene movimientos.
	GetBalance(ctx context.Context, itemID string) (*entity.KardexBalance, error)
	SaveBalance(ctx context.Context, balance *entity.KardexBalance) error
	// LastAtOrBefore devuelve la última fila con fecha <= date (nil si no hay).
	LastAtOrBefore(ctx context.Context, itemID string, date time.Time) (*entity.KardexEntry, error)
	// ListAfter devuelve, en orden, las filas con fecha > date.
	ListAfter(ctx context.Context, itemID string, date time.Time) ([]*entity.KardexEntry, error)
	RestateBalances(ctx context.Context, entries []*entity.KardexEntry) error
	ListByItem(ctx context.Context, itemID string, from, to *time.Time) ([]*entity.KardexEntry, error)
}
