// Package masterdata administra el alta de insumos, almacenes y maquinarias.
package masterdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
	"github.com/jhoicas/Maquinaria-api/pkg/logger"
)

// UseCase casos de uso de datos maestros.
type UseCase struct {
	items      repository.ItemRegistry
	catalog    repository.CatalogReader
	warehouses repository.WarehouseRepository
	machines   repository.MachineRegistry
	log        *logger.Logger
}

// NewUseCase construye el caso de uso. log puede ser nil.
func NewUseCase(
	items repository.ItemRegistry,
	catalog repository.CatalogReader,
	warehouses repository.WarehouseRepository,
	machines repository.MachineRegistry,
	log *logger.Logger,
) *UseCase {
	return &UseCase{items: items, catalog: catalog, warehouses: warehouses, machines: machines, log: log}
}

// CreateItem registra un insumo. El código se normaliza a mayúsculas porque prefija las series.
// Un consumible necesita dimensión y unidad por defecto de esa dimensión; un repuesto no lleva ninguna.
func (uc *UseCase) CreateItem(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	kind := entity.ItemKind(in.Kind)
	if code == "" || strings.TrimSpace(in.Name) == "" || !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}

	item := &entity.Item{
		ID:   uuid.New().String(),
		Code: code,
		Name: strings.TrimSpace(in.Name),
		Kind: kind,
	}

	if kind == entity.ItemKindConsumible {
		unitID, err := uc.resolveDefaultUnit(ctx, in.DimensionID, in.DefaultUnitID)
		if err != nil {
			return nil, err
		}
		item.DimensionID = in.DimensionID
		item.DefaultUnitID = unitID
	} else if in.DimensionID != "" || in.DefaultUnitID != "" {
		return nil, fmt.Errorf("%w: un repuesto se compra por unidad, sin dimensión", domain.ErrInvalidInput)
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}
	if uc.log != nil {
		uc.log.Info().Str("item_id", item.ID).Str("code", item.Code).Str("kind", string(item.Kind)).Msg("insumo registrado")
	}
	return toItemResponse(item), nil
}

func (uc *UseCase) resolveDefaultUnit(ctx context.Context, dimensionID, unitID string) (string, error) {
	if dimensionID == "" {
		return "", fmt.Errorf("%w: un consumible requiere dimension_id", domain.ErrInvalidInput)
	}
	dim, err := uc.catalog.GetDimension(ctx, dimensionID)
	if err != nil {
		return "", err
	}
	if dim == nil {
		return "", domain.ErrNotFound
	}
	if unitID == "" {
		base, err := uc.catalog.GetBaseUnit(ctx, dim.ID)
		if err != nil {
			return "", err
		}
		if base == nil {
			return "", &domain.ConversionError{Err: domain.ErrMissingBaseUnit, DimensionID: dim.ID}
		}
		return base.ID, nil
	}
	unit, err := uc.catalog.GetUnit(ctx, unitID)
	if err != nil {
		return "", err
	}
	if unit == nil {
		return "", domain.ErrNotFound
	}
	if unit.DimensionID != dim.ID {
		return "", fmt.Errorf("%w: la unidad %s no pertenece a la dimensión %s", domain.ErrInvalidInput, unit.Symbol, dim.Code)
	}
	return unit.ID, nil
}

// GetItem obtiene un insumo por ID.
func (uc *UseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// CreateWarehouse crea un nuevo almacén.
func (uc *UseCase) CreateWarehouse(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: time.Now(),
	}
	if err := uc.warehouses.Create(ctx, w); err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// GetWarehouse obtiene un almacén por ID.
func (uc *UseCase) GetWarehouse(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(w), nil
}

// ListWarehouses lista almacenes con paginación.
func (uc *UseCase) ListWarehouses(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.warehouses.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// CreateMachine registra una maquinaria; el código es único.
func (uc *UseCase) CreateMachine(ctx context.Context, in dto.CreateMachineRequest) (*dto.MachineResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	m := &entity.Machine{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: time.Now(),
	}
	if err := uc.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMachineResponse(m), nil
}

// GetMachine obtiene una maquinaria por ID.
func (uc *UseCase) GetMachine(ctx context.Context, id string) (*dto.MachineResponse, error) {
	m, err := uc.machines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMachineResponse(m), nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            i.ID,
		Code:          i.Code,
		Name:          i.Name,
		Kind:          string(i.Kind),
		DimensionID:   i.DimensionID,
		DefaultUnitID: i.DefaultUnitID,
		LastSerial:    i.LastSerial,
		CreatedAt:     i.CreatedAt,
	}
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{ID: w.ID, Name: w.Name, CreatedAt: w.CreatedAt}
}

func toMachineResponse(m *entity.Machine) *dto.MachineResponse {
	return &dto.MachineResponse{ID: m.ID, Code: m.Code, Name: m.Name, CreatedAt: m.CreatedAt}
}
