package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
	"github.com/jhoicas/Maquinaria-api/pkg/logger"
	"github.com/jhoicas/Maquinaria-api/pkg/metrics"
)

// UnitUseCase gestiona el ciclo de vida de las unidades serializadas de repuestos:
// transiciones de estado y ubicación, historial y consultas por ubicación.
type UnitUseCase struct {
	txRunner     ports.TxRunner
	unitRepo     repository.ItemUnitRepository
	intervalRepo repository.LocationIntervalRepository
	machineRepo  repository.MachineRepository
	log          *logger.Logger
	metrics      *metrics.Metrics
}

// NewUnitUseCase construye el caso de uso. log y m pueden ser nil.
func NewUnitUseCase(
	txRunner ports.TxRunner,
	unitRepo repository.ItemUnitRepository,
	intervalRepo repository.LocationIntervalRepository,
	machineRepo repository.MachineRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *UnitUseCase {
	return &UnitUseCase{
		txRunner:     txRunner,
		unitRepo:     unitRepo,
		intervalRepo: intervalRepo,
		machineRepo:  machineRepo,
		log:          log,
		metrics:      m,
	}
}

// TransitionInput entrada para mover una unidad.
type TransitionInput struct {
	UnitID   string
	UserID   string
	State    entity.UnitState
	Location entity.Location
	At       time.Time
}

// Transition cierra el intervalo vigente de la unidad y abre uno nuevo en la ubicación indicada.
// La unidad queda bloqueada durante la transición; transiciones con fecha anterior al intervalo
// vigente se rechazan con domain.ErrNonMonotonicTime.
func (uc *UnitUseCase) Transition(ctx context.Context, in TransitionInput) (*dto.TransitionResponse, error) {
	if in.UnitID == "" || in.At.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	var (
		unit *entity.ItemUnit
		ch   inventory.Change
	)
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		u, err := r.Units.GetForUpdate(ctx, in.UnitID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		ch, err = uc.TransitionInTx(ctx, r, u, in.State, in.Location, in.At)
		unit = u
		return err
	})
	if err != nil {
		if uc.log != nil {
			uc.log.Warn().Err(err).
				Str("unit_id", in.UnitID).
				Str("state", string(in.State)).
				Str("location", in.Location.String()).
				Msg("unidad: transición rechazada")
		}
		return nil, err
	}

	out := &dto.TransitionResponse{Unit: toUnitDTO(unit)}
	if ch.Closed != nil {
		c := toIntervalDTO(ch.Closed)
		out.Closed = &c
	}
	if ch.Opened != nil {
		o := toIntervalDTO(ch.Opened)
		out.Opened = &o
	}
	return out, nil
}

// TransitionInTx aplica la transición con los repositorios de la transacción del caller.
// Compras la usa para ingresar al almacén de recepción las unidades recién creadas.
func (uc *UnitUseCase) TransitionInTx(
	ctx context.Context,
	r ports.Repos,
	unit *entity.ItemUnit,
	state entity.UnitState,
	loc entity.Location,
	at time.Time,
) (inventory.Change, error) {
	open, err := r.Intervals.GetOpen(ctx, unit.ID)
	if err != nil {
		return inventory.Change{}, err
	}
	ch, err := inventory.Transition(unit, open, state, loc, at)
	if err != nil {
		return inventory.Change{}, err
	}
	if ch.Closed != nil {
		if err := r.Intervals.Close(ctx, ch.Closed); err != nil {
			return inventory.Change{}, err
		}
	}
	if ch.Opened != nil {
		ch.Opened.ID = uuid.New().String()
		if err := r.Intervals.Create(ctx, ch.Opened); err != nil {
			return inventory.Change{}, err
		}
	}
	if err := r.Units.Update(ctx, unit); err != nil {
		return inventory.Change{}, err
	}

	uc.metrics.ObserveTransition(string(state))
	if uc.log != nil {
		uc.log.Info().
			Str("unit_id", unit.ID).
			Str("serial", unit.Serial).
			Str("state", string(state)).
			Str("location", loc.String()).
			Time("at", at).
			Msg("unidad: transición registrada")
	}
	return ch, nil
}

// History devuelve el historial de ubicaciones de la unidad ordenado por inicio.
func (uc *UnitUseCase) History(ctx context.Context, unitID string) ([]dto.IntervalDTO, error) {
	if _, err := uc.get(ctx, unitID); err != nil {
		return nil, err
	}
	intervals, err := uc.intervalRepo.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IntervalDTO, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, toIntervalDTO(iv))
	}
	return out, nil
}

// CurrentLocation devuelve la ubicación vigente; Kind vacío si la unidad no está en ningún lugar.
func (uc *UnitUseCase) CurrentLocation(ctx context.Context, unitID string) (*dto.LocationDTO, error) {
	unit, err := uc.get(ctx, unitID)
	if err != nil {
		return nil, err
	}
	loc := toLocationDTO(unit.Location, unit.LocationSince)
	return &loc, nil
}

// AssignableUnits lista las unidades del item que están en algún almacén y no están inoperativas.
func (uc *UnitUseCase) AssignableUnits(ctx context.Context, itemID string) ([]dto.ItemUnitDTO, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	units, err := uc.unitRepo.ListAssignable(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return toUnitDTOs(units), nil
}

// MachineCostCenter suma el costo de adquisición de las unidades instaladas en la maquinaria.
func (uc *UnitUseCase) MachineCostCenter(ctx context.Context, machineID string) (*dto.CostCenterDTO, error) {
	machine, err := uc.machineRepo.GetByID(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, domain.ErrNotFound
	}
	units, err := uc.unitRepo.ListAtLocation(ctx, entity.AtMachine(machineID))
	if err != nil {
		return nil, fmt.Errorf("centro de costo: %w", err)
	}
	total := decimal.Zero
	for _, u := range units {
		total = total.Add(u.AcquisitionCost)
	}
	return &dto.CostCenterDTO{
		MachineID: machine.ID,
		Code:      machine.Code,
		Name:      machine.Name,
		TotalCost: total,
		Units:     toUnitDTOs(units),
	}, nil
}

func (uc *UnitUseCase) get(ctx context.Context, unitID string) (*entity.ItemUnit, error) {
	unit, err := uc.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

func toLocationDTO(loc entity.Location, since time.Time) dto.LocationDTO {
	if loc.IsNone() {
		return dto.LocationDTO{}
	}
	out := dto.LocationDTO{Kind: string(loc.Kind), ID: loc.ID}
	if !since.IsZero() {
		out.Since = &since
	}
	return out
}

func toUnitDTO(u *entity.ItemUnit) dto.ItemUnitDTO {
	return dto.ItemUnitDTO{
		ID:              u.ID,
		ItemID:          u.ItemID,
		Serial:          u.Serial,
		State:           string(u.State),
		Location:        toLocationDTO(u.Location, u.LocationSince),
		AcquisitionCost: u.AcquisitionCost,
		PurchaseLineID:  u.PurchaseLineID,
	}
}

func toUnitDTOs(units []*entity.ItemUnit) []dto.ItemUnitDTO {
	out := make([]dto.ItemUnitDTO, 0, len(units))
	for _, u := range units {
		out = append(out, toUnitDTO(u))
	}
	return out
}

func toIntervalDTO(iv *entity.LocationInterval) dto.IntervalDTO {
	return dto.IntervalDTO{
		ID:       iv.ID,
		Location: toLocationDTO(iv.Location, time.Time{}),
		State:    string(iv.State),
		Start:    iv.Start,
		End:      iv.End,
	}
}
