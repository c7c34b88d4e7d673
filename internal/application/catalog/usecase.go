// Package catalog administra dimensiones, unidades de medida y sus equivalencias.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
	"github.com/jhoicas/Maquinaria-api/internal/domain/uom"
	"github.com/jhoicas/Maquinaria-api/pkg/logger"
)

// UseCase casos de uso del catálogo de unidades.
type UseCase struct {
	repo repository.CatalogRepository
	log  *logger.Logger
}

// NewUseCase construye el caso de uso. log puede ser nil.
func NewUseCase(repo repository.CatalogRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, log: log}
}

// CreateDimension registra una dimensión nueva (volumen, longitud, conteo...).
func (uc *UseCase) CreateDimension(ctx context.Context, in dto.CreateDimensionRequest) (*dto.DimensionResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	d := &entity.Dimension{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.CreateDimension(ctx, d); err != nil {
		return nil, err
	}
	return &dto.DimensionResponse{ID: d.ID, Code: d.Code, Name: d.Name, Active: d.Active, CreatedAt: d.CreatedAt}, nil
}

// CreateUnit registra una unidad en una dimensión existente. Solo puede haber una unidad
// base por dimensión.
func (uc *UseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	dim, err := uc.repo.GetDimension(ctx, in.DimensionID)
	if err != nil {
		return nil, err
	}
	if dim == nil {
		return nil, domain.ErrNotFound
	}
	if in.IsBase {
		base, err := uc.repo.GetBaseUnit(ctx, dim.ID)
		if err != nil {
			return nil, err
		}
		if base != nil {
			return nil, fmt.Errorf("%w: la dimensión %s ya tiene unidad base (%s)", domain.ErrConflict, dim.Code, base.Symbol)
		}
	}
	u := &entity.UnitOfMeasure{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Symbol:      in.Symbol,
		DimensionID: dim.ID,
		IsBase:      in.IsBase,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.CreateUnit(ctx, u); err != nil {
		return nil, err
	}
	return toUnitResponse(u), nil
}

// CreateUnitRelation registra la equivalencia 1 base = factor relacionada.
func (uc *UseCase) CreateUnitRelation(ctx context.Context, in dto.CreateUnitRelationRequest) (*dto.UnitRelationResponse, error) {
	base, err := uc.repo.GetUnit(ctx, in.BaseUnitID)
	if err != nil {
		return nil, err
	}
	related, err := uc.repo.GetUnit(ctx, in.RelatedUnitID)
	if err != nil {
		return nil, err
	}
	if base == nil || related == nil {
		return nil, domain.ErrNotFound
	}
	if err := uom.ValidateRelation(base, related, in.Factor); err != nil {
		return nil, err
	}
	rel := &entity.UnitRelation{
		ID:            uuid.New().String(),
		DimensionID:   base.DimensionID,
		BaseUnitID:    base.ID,
		RelatedUnitID: related.ID,
		Factor:        in.Factor,
		Active:        true,
		CreatedAt:     time.Now(),
	}
	if err := uc.repo.CreateUnitRelation(ctx, rel); err != nil {
		return nil, err
	}
	if uc.log != nil {
		uc.log.Info().
			Str("base_unit", base.Symbol).
			Str("related_unit", related.Symbol).
			Str("factor", rel.Factor.String()).
			Msg("catálogo: equivalencia registrada")
	}
	return &dto.UnitRelationResponse{
		ID:            rel.ID,
		DimensionID:   rel.DimensionID,
		BaseUnitID:    rel.BaseUnitID,
		RelatedUnitID: rel.RelatedUnitID,
		Factor:        rel.Factor,
		Active:        rel.Active,
	}, nil
}

// ListUnits lista las unidades de una dimensión.
func (uc *UseCase) ListUnits(ctx context.Context, dimensionID string) ([]dto.UnitResponse, error) {
	dim, err := uc.repo.GetDimension(ctx, dimensionID)
	if err != nil {
		return nil, err
	}
	if dim == nil {
		return nil, domain.ErrNotFound
	}
	units, err := uc.repo.ListUnits(ctx, dimensionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

func toUnitResponse(u *entity.UnitOfMeasure) *dto.UnitResponse {
	return &dto.UnitResponse{
		ID:          u.ID,
		Name:        u.Name,
		Symbol:      u.Symbol,
		DimensionID: u.DimensionID,
		IsBase:      u.IsBase,
		Active:      u.Active,
	}
}
