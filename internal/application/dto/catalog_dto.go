package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDimensionRequest body para POST /api/catalog/dimensions.
type CreateDimensionRequest struct {
	Code string `json:"code" validate:"required,max=30"`
	Name string `json:"name" validate:"required,max=120"`
}

// DimensionResponse dimensión creada.
type DimensionResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUnitRequest body para POST /api/catalog/units.
type CreateUnitRequest struct {
	Name        string `json:"name" validate:"required,max=60"`
	Symbol      string `json:"symbol" validate:"required,max=15"`
	DimensionID string `json:"dimension_id" validate:"required,uuid"`
	IsBase      bool   `json:"is_base"`
}

// UnitResponse unidad de medida.
type UnitResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	DimensionID string `json:"dimension_id"`
	IsBase      bool   `json:"is_base"`
	Active      bool   `json:"active"`
}

// CreateUnitRelationRequest body para POST /api/catalog/relations.
// Equivalencia: 1 base_unit = factor related_unit.
type CreateUnitRelationRequest struct {
	BaseUnitID    string          `json:"base_unit_id" validate:"required,uuid"`
	RelatedUnitID string          `json:"related_unit_id" validate:"required,uuid,nefield=BaseUnitID"`
	Factor        decimal.Decimal `json:"factor"`
}

// UnitRelationResponse equivalencia registrada.
type UnitRelationResponse struct {
	ID            string          `json:"id"`
	DimensionID   string          `json:"dimension_id"`
	BaseUnitID    string          `json:"base_unit_id"`
	RelatedUnitID string          `json:"related_unit_id"`
	Factor        decimal.Decimal `json:"factor"`
	Active        bool            `json:"active"`
}
