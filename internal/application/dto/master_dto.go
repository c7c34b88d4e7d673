package dto

import "time"

// CreateItemRequest body para POST /api/items.
// Los consumibles requieren dimension_id; default_unit_id vacío toma la unidad base de la dimensión.
type CreateItemRequest struct {
	Code          string `json:"code" validate:"required,max=30"`
	Name          string `json:"name" validate:"required,max=200"`
	Kind          string `json:"kind" validate:"required,oneof=REPUESTO CONSUMIBLE"`
	DimensionID   string `json:"dimension_id" validate:"omitempty,uuid"`
	DefaultUnitID string `json:"default_unit_id" validate:"omitempty,uuid"`
}

// ItemResponse insumo del catálogo.
type ItemResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	DimensionID   string    `json:"dimension_id,omitempty"`
	DefaultUnitID string    `json:"default_unit_id,omitempty"`
	LastSerial    int       `json:"last_serial"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// WarehouseResponse almacén.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PageResponse metadatos de paginación.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// WarehouseListResponse listado paginado de almacenes.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateMachineRequest body para POST /api/machines.
type CreateMachineRequest struct {
	Code string `json:"code" validate:"required,max=30"`
	Name string `json:"name" validate:"required,max=120"`
}

// MachineResponse maquinaria.
type MachineResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
