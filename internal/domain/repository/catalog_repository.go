package repository

import (
	"context"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// CatalogReader es el puerto de solo lectura del catálogo de unidades.
// Todos los métodos devuelven (nil, nil) cuando el registro no existe.
type CatalogReader interface {
	GetDimension(ctx context.Context, id string) (*entity.Dimension, error)
	GetUnit(ctx context.Context, id string) (*entity.UnitOfMeasure, error)
	GetBaseUnit(ctx context.Context, dimensionID string) (*entity.UnitOfMeasure, error)
	GetUnitRelation(ctx context.Context, baseUnitID, relatedUnitID string) (*entity.UnitRelation, error)
}

// CatalogRepository agrega las escrituras de catálogo (dimensiones, unidades, equivalencias).
type CatalogRepository interface {
	CatalogReader
	CreateDimension(ctx context.Context, d *entity.Dimension) error
	CreateUnit(ctx context.Context, u *entity.UnitOfMeasure) error
	CreateUnitRelation(ctx context.Context, r *entity.UnitRelation) error
	ListUnits(ctx context.Context, dimensionID string) ([]*entity.UnitOfMeasure, error)
}
