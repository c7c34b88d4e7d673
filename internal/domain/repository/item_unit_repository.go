package repository

import (
	"context"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// ItemUnitRepository define el puerto de persistencia de unidades serializadas.
type ItemUnitRepository interface {
	Create(ctx context.Context, unit *entity.ItemUnit) error
	GetByID(ctx context.Context, id string) (*entity.ItemUnit, error)
	// GetForUpdate bloquea la unidad mientras se aplica una transición.
	GetForUpdate(ctx context.Context, id string) (*entity.ItemUnit, error)
	Update(ctx context.Context, unit *entity.ItemUnit) error
	ListAtLocation(ctx context.Context, loc entity.Location) ([]*entity.ItemUnit, error)
	// ListAssignable lista unidades del item en algún almacén y no inoperativas.
	ListAssignable(ctx context.Context, itemID string) ([]*entity.ItemUnit, error)
}

// LocationIntervalRepository define el puerto del historial de ubicaciones (append-only salvo el cierre).
type LocationIntervalRepository interface {
	Create(ctx context.Context, interval *entity.LocationInterval) error
	Close(ctx context.Context, interval *entity.LocationInterval) error
	GetOpen(ctx context.Context, itemUnitID string) (*entity.LocationInterval, error)
	ListByUnit(ctx context.Context, itemUnitID string) ([]*entity.LocationInterval, error)
}
