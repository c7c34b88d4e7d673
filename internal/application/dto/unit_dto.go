package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransitionRequest body para POST /api/units/:id/transitions.
// A lo sumo uno de warehouse_id, machine_id, worker_id; ninguno deja la unidad sin ubicación.
type TransitionRequest struct {
	State       string    `json:"state" validate:"required,oneof=NUEVO USADO INOPERATIVO REPARADO"`
	WarehouseID string    `json:"warehouse_id,omitempty" validate:"omitempty,uuid,excluded_with=MachineID WorkerID"`
	MachineID   string    `json:"machine_id,omitempty" validate:"omitempty,uuid,excluded_with=WarehouseID WorkerID"`
	WorkerID    string    `json:"worker_id,omitempty" validate:"omitempty,uuid,excluded_with=WarehouseID MachineID"`
	At          time.Time `json:"at" validate:"required"`
}

// LocationDTO ubicación de una unidad; Kind vacío = sin ubicación.
type LocationDTO struct {
	Kind  string     `json:"kind,omitempty"`
	ID    string     `json:"id,omitempty"`
	Since *time.Time `json:"since,omitempty"`
}

// ItemUnitDTO unidad serializada.
type ItemUnitDTO struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	Serial          string          `json:"serial"`
	State           string          `json:"state"`
	Location        LocationDTO     `json:"location"`
	AcquisitionCost decimal.Decimal `json:"acquisition_cost"`
	PurchaseLineID  string          `json:"purchase_line_id,omitempty"`
}

// IntervalDTO intervalo del historial de ubicaciones; End nil = vigente.
type IntervalDTO struct {
	ID       string      `json:"id"`
	Location LocationDTO `json:"location"`
	State    string      `json:"state"`
	Start    time.Time   `json:"start"`
	End      *time.Time  `json:"end,omitempty"`
}

// TransitionResponse resultado de una transición.
type TransitionResponse struct {
	Unit   ItemUnitDTO  `json:"unit"`
	Closed *IntervalDTO `json:"closed,omitempty"`
	Opened *IntervalDTO `json:"opened,omitempty"`
}

// CostCenterDTO centro de costo de una maquinaria: suma del costo de adquisición de las
// unidades instaladas en ella.
type CostCenterDTO struct {
	MachineID string          `json:"machine_id"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name,omitempty"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Units     []ItemUnitDTO   `json:"units"`
}
