package repository

import (
	"context"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del item (SELECT FOR UPDATE); serializa kardex y correlativos.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// ReserveSerials incrementa el correlativo en n y devuelve el primer número reservado.
	ReserveSerials(ctx context.Context, itemID string, n int) (int, error)
}
