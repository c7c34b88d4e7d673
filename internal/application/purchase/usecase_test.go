package purchase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	appinventory "github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports/portstest"
	apppurchase "github.com/jhoicas/Maquinaria-api/internal/application/purchase"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

var fechaCompra = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func nuevoStore() *portstest.Store {
	s := portstest.NewStore()
	s.AddDimension(entity.Dimension{ID: "VOLUMEN", Code: "VOL", Name: "Volumen", Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: "LITRO", Symbol: "L", DimensionID: "VOLUMEN", IsBase: true, Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: "GALON", Symbol: "GAL", DimensionID: "VOLUMEN", Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: "BALDE", Symbol: "BAL", DimensionID: "VOLUMEN", Active: true})
	s.AddRelation(entity.UnitRelation{ID: "R1", DimensionID: "VOLUMEN", BaseUnitID: "LITRO", RelatedUnitID: "GALON", Factor: decimal.RequireFromString("3.785"), Active: true})
	s.AddItem(entity.Item{ID: "ACEITE", Code: "ACE", Name: "Aceite 15W40", Kind: entity.ItemKindConsumible, DimensionID: "VOLUMEN", DefaultUnitID: "LITRO"})
	s.AddItem(entity.Item{ID: "GRASA", Code: "GRA", Name: "Grasa", Kind: entity.ItemKindConsumible, DimensionID: "VOLUMEN", DefaultUnitID: "LITRO"})
	s.AddItem(entity.Item{ID: "FILTRO", Code: "FIL", Name: "Filtro de aceite", Kind: entity.ItemKindRepuesto, DefaultUnitID: "UNIDAD"})
	s.AddSupplier("PROV-1", "Repuestos del Sur")
	return s
}

func nuevoUseCase(s *portstest.Store, cfg apppurchase.Config) *apppurchase.RegisterPurchaseUseCase {
	r := s.Repos()
	kardex := appinventory.NewKardexUseCase(s, r.Items, r.Kardex, r.Catalog, nil, nil, nil)
	units := appinventory.NewUnitUseCase(s, r.Units, r.Intervals, s.Machines(), nil, nil)
	return apppurchase.NewRegisterPurchaseUseCase(s, r.Purchases, kardex, units, cfg, nil, nil)
}

func compra(code string, lines ...dto.PurchaseLineRequest) dto.PurchaseRequest {
	return dto.PurchaseRequest{
		Date:         fechaCompra,
		SupplierID:   "PROV-1",
		DocumentType: "FACTURA",
		DocumentCode: code,
		Currency:     "PEN",
		Lines:        lines,
	}
}

func linea(item string, qty string, unit string, kind string, amount string) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{
		ItemID:     item,
		Quantity:   decimal.RequireFromString(qty),
		UnitID:     unit,
		AmountKind: kind,
		Amount:     decimal.RequireFromString(amount),
	}
}

func TestRegister_CompraMixta(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{ReceivingWarehouseID: "ALM-1"})

	out, err := uc.Register(context.Background(), "user-1", compra("F001-1",
		linea("FILTRO", "3", "", "UNIT_COST", "25"),
		linea("ACEITE", "10", "GALON", "TOTAL_VALUE", "100.00"),
	))
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "118.00", out.Lines[1].TotalCost.StringFixed(2))
	assert.Equal(t, "2.6420", out.Lines[1].BaseQuantity.StringFixed(4))
	assert.NotEmpty(t, out.Lines[1].KardexEntryID)
	assert.Equal(t, []string{"FIL-00001", "FIL-00002", "FIL-00003"}, out.Lines[0].Serials)
	assert.Equal(t, 1, s.PurchaseCount())
	assert.Equal(t, 2, s.LineCount())

	units := s.ItemUnits("FILTRO")
	require.Len(t, units, 3)
	for _, u := range units {
		assert.Equal(t, entity.UnitStateNuevo, u.State)
		assert.Equal(t, entity.AtWarehouse("ALM-1"), u.Location)
		assert.True(t, u.AcquisitionCost.Equal(decimal.NewFromInt(25)))
		ivs := s.Intervals(u.ID)
		require.Len(t, ivs, 1)
		assert.True(t, ivs[0].IsOpen())
		assert.Equal(t, fechaCompra, ivs[0].Start)
	}
	assert.Equal(t, 3, s.Item("FILTRO").LastSerial)

	entries := s.KardexEntries("ACEITE")
	require.Len(t, entries, 1)
	assert.Equal(t, "FACTURA F001-1", entries[0].Reference)
	assert.Equal(t, "118.00", entries[0].BalanceCost.StringFixed(2))
}

func TestRegister_MismoItemEnVariasLineas(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{})

	out, err := uc.Register(context.Background(), "user-1", compra("F001-7",
		linea("ACEITE", "5", "LITRO", "UNIT_VALUE", "10"),
		linea("FILTRO", "2", "", "UNIT_COST", "25"),
		linea("ACEITE", "2", "GALON", "UNIT_VALUE", "40"),
		linea("FILTRO", "1", "", "UNIT_COST", "30"),
	))
	require.NoError(t, err)
	require.Len(t, out.Lines, 4)

	entries := s.KardexEntries("ACEITE")
	require.Len(t, entries, 2)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, "5.5284", entries[1].BalanceQuantity.StringFixed(4))
	assert.Equal(t, "153.40", entries[1].BalanceCost.StringFixed(2))

	assert.Equal(t, []string{"FIL-00001", "FIL-00002"}, out.Lines[1].Serials)
	assert.Equal(t, []string{"FIL-00003"}, out.Lines[3].Serials)
	assert.Equal(t, 3, s.Item("FILTRO").LastSerial)
	assert.Len(t, s.ItemUnits("FILTRO"), 3)
}

func TestRegister_SinAlmacen_UnidadesSinUbicacion(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{})

	_, err := uc.Register(context.Background(), "user-1", compra("F001-2", linea("FILTRO", "2", "", "UNIT_VALUE", "10")))
	require.NoError(t, err)

	for _, u := range s.ItemUnits("FILTRO") {
		assert.True(t, u.Location.IsNone())
		assert.Empty(t, s.Intervals(u.ID))
		assert.Equal(t, "11.80", u.AcquisitionCost.StringFixed(2))
	}
}

func TestRegister_LineaSinFactor_NoRegistraNada(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{ReceivingWarehouseID: "ALM-1"})

	_, err := uc.Register(context.Background(), "user-1", compra("F001-3",
		linea("FILTRO", "3", "", "UNIT_COST", "25"),
		linea("GRASA", "2", "BALDE", "UNIT_VALUE", "40"),
		linea("ACEITE", "5", "LITRO", "UNIT_VALUE", "8"),
	))
	require.Error(t, err)

	var batchErr *domain.BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Lines, 1)
	assert.Equal(t, 2, batchErr.Lines[0].Index)
	assert.ErrorIs(t, err, domain.ErrMissingConversionFactor)

	assert.Equal(t, 0, s.PurchaseCount())
	assert.Equal(t, 0, s.LineCount())
	assert.Empty(t, s.ItemUnits("FILTRO"))
	assert.Empty(t, s.KardexEntries("ACEITE"))
	assert.Equal(t, 0, s.Item("FILTRO").LastSerial)
}

func TestRegister_ComprobanteDuplicado(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{})
	req := compra("F001-4", linea("ACEITE", "5", "", "UNIT_VALUE", "8"))

	_, err := uc.Register(context.Background(), "user-1", req)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 1, s.PurchaseCount())
	assert.Len(t, s.KardexEntries("ACEITE"), 1)
}

func TestRegister_SeriesCorrelativasEntreCompras(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{})

	_, err := uc.Register(context.Background(), "user-1", compra("F001-5", linea("FILTRO", "2", "", "UNIT_COST", "20")))
	require.NoError(t, err)
	out, err := uc.Register(context.Background(), "user-1", compra("F001-6", linea("FILTRO", "1", "", "UNIT_COST", "22")))
	require.NoError(t, err)

	assert.Equal(t, []string{"FIL-00003"}, out.Lines[0].Serials)
}

func TestRegister_MonedaNoAdmitida(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{})
	req := compra("F001-7", linea("ACEITE", "1", "", "UNIT_VALUE", "8"))
	req.Currency = "COP"

	_, err := uc.Register(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_MonedaPorDefecto(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{DefaultCurrency: "USD"})
	req := compra("F001-8", linea("ACEITE", "1", "", "UNIT_VALUE", "8"))
	req.Currency = ""

	out, err := uc.Register(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, "USD", out.Lines[0].Currency)
}

func TestSupplierPrices(t *testing.T) {
	s := nuevoStore()
	uc := nuevoUseCase(s, apppurchase.Config{})

	_, err := uc.Register(context.Background(), "user-1", compra("F001-9", linea("ACEITE", "4", "", "UNIT_VALUE", "10")))
	require.NoError(t, err)
	_, err = uc.Register(context.Background(), "user-1", compra("F001-10", linea("ACEITE", "2", "", "UNIT_VALUE", "12")))
	require.NoError(t, err)

	prices, err := uc.SupplierPrices(context.Background(), "ACEITE")
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Repuestos del Sur", prices[0].SupplierName)
	assert.Equal(t, 2, prices[0].Purchases)
	assert.True(t, prices[0].AvgUnitValue.Equal(decimal.NewFromInt(11)))
}
