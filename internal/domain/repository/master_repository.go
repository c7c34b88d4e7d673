package repository

import (
	"context"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// ItemRegistry alta y consulta de insumos del catálogo.
type ItemRegistry interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}

// WarehouseRepository define el puerto de persistencia para almacenes.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
}

// MachineRepository consulta maquinarias.
type MachineRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Machine, error)
}

// MachineRegistry agrega el alta de maquinarias.
type MachineRegistry interface {
	MachineRepository
	Create(ctx context.Context, machine *entity.Machine) error
}
