package masterdata_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/application/masterdata"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports/portstest"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

const (
	dimVolumen  = "dim-vol"
	dimLongitud = "dim-lon"
	uLitro      = "u-l"
	uGalon      = "u-gal"
	uMetro      = "u-m"
)

func nuevoCaso(t *testing.T) (*masterdata.UseCase, *portstest.Store) {
	t.Helper()
	s := portstest.NewStore()
	s.AddDimension(entity.Dimension{ID: dimVolumen, Code: "VOL", Active: true})
	s.AddDimension(entity.Dimension{ID: dimLongitud, Code: "LON", Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: uLitro, Symbol: "L", DimensionID: dimVolumen, IsBase: true, Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: uGalon, Symbol: "GAL", DimensionID: dimVolumen, Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: uMetro, Symbol: "m", DimensionID: dimLongitud, Active: true})
	uc := masterdata.NewUseCase(s.Items(), s.Repos().Catalog, s.Warehouses(), s.Machines(), nil)
	return uc, s
}

func TestMasterData_ConsumibleSinUnidad_TomaUnidadBase(t *testing.T) {
	uc, s := nuevoCaso(t)

	out, err := uc.CreateItem(context.Background(), dto.CreateItemRequest{
		Code: " ace-15w40 ", Name: "Aceite 15W40", Kind: "CONSUMIBLE", DimensionID: dimVolumen,
	})
	require.NoError(t, err)
	assert.Equal(t, "ACE-15W40", out.Code)
	assert.Equal(t, uLitro, out.DefaultUnitID)
	assert.Equal(t, entity.ItemKindConsumible, s.Item(out.ID).Kind)
}

func TestMasterData_ConsumibleConUnidadDeOtraDimension_RetornaInvalido(t *testing.T) {
	uc, _ := nuevoCaso(t)
	_, err := uc.CreateItem(context.Background(), dto.CreateItemRequest{
		Code: "ACE", Name: "Aceite", Kind: "CONSUMIBLE", DimensionID: dimVolumen, DefaultUnitID: uMetro,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMasterData_ConsumibleSinDimension_RetornaInvalido(t *testing.T) {
	uc, _ := nuevoCaso(t)
	_, err := uc.CreateItem(context.Background(), dto.CreateItemRequest{Code: "ACE", Name: "Aceite", Kind: "CONSUMIBLE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMasterData_DimensionSinUnidadBase_RetornaErrMissingBaseUnit(t *testing.T) {
	uc, _ := nuevoCaso(t)
	_, err := uc.CreateItem(context.Background(), dto.CreateItemRequest{
		Code: "CAB", Name: "Cable", Kind: "CONSUMIBLE", DimensionID: dimLongitud,
	})
	assert.ErrorIs(t, err, domain.ErrMissingBaseUnit)
}

func TestMasterData_RepuestoConDimension_RetornaInvalido(t *testing.T) {
	uc, _ := nuevoCaso(t)
	_, err := uc.CreateItem(context.Background(), dto.CreateItemRequest{
		Code: "FIL", Name: "Filtro", Kind: "REPUESTO", DimensionID: dimVolumen,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMasterData_CodigoDuplicado_RetornaErrDuplicate(t *testing.T) {
	uc, _ := nuevoCaso(t)
	ctx := context.Background()

	_, err := uc.CreateItem(ctx, dto.CreateItemRequest{Code: "FIL", Name: "Filtro", Kind: "REPUESTO"})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, dto.CreateItemRequest{Code: "fil", Name: "Otro filtro", Kind: "REPUESTO"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestMasterData_GetItemInexistente_RetornaNotFound(t *testing.T) {
	uc, _ := nuevoCaso(t)
	_, err := uc.GetItem(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMasterData_ListarAlmacenesPaginado(t *testing.T) {
	uc, _ := nuevoCaso(t)
	ctx := context.Background()
	for _, name := range []string{"Taller", "Central", "Obra Norte"} {
		_, err := uc.CreateWarehouse(ctx, dto.CreateWarehouseRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := uc.ListWarehouses(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Central", page.Items[0].Name)
	assert.Equal(t, "Obra Norte", page.Items[1].Name)

	page, err = uc.ListWarehouses(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Taller", page.Items[0].Name)
}

func TestMasterData_Maquinaria(t *testing.T) {
	uc, _ := nuevoCaso(t)
	ctx := context.Background()

	m, err := uc.CreateMachine(ctx, dto.CreateMachineRequest{Code: "exc-01", Name: "Excavadora 320"})
	require.NoError(t, err)
	assert.Equal(t, "EXC-01", m.Code)

	got, err := uc.GetMachine(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Excavadora 320", got.Name)

	_, err = uc.CreateMachine(ctx, dto.CreateMachineRequest{Code: "EXC-01", Name: "Duplicada"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.GetMachine(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
