package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquinaria-api/internal/application/catalog"
	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/application/masterdata"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports/portstest"
	"github.com/jhoicas/Maquinaria-api/internal/application/purchase"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Maquinaria-api/internal/interfaces/http"
)

const (
	dimVolumen = "10000000-0000-0000-0000-000000000001"
	uLitro     = "10000000-0000-0000-0000-000000000002"
	uGalon     = "10000000-0000-0000-0000-000000000003"
	uBalde     = "10000000-0000-0000-0000-000000000004"
	itemAceite = "20000000-0000-0000-0000-000000000001"
	itemFiltro = "20000000-0000-0000-0000-000000000002"
	almacen    = "30000000-0000-0000-0000-000000000001"
	maquina    = "40000000-0000-0000-0000-000000000001"
	proveedor  = "20100070970"
)

func nuevaApp(t *testing.T) *fiber.App {
	t.Helper()
	s := portstest.NewStore()
	s.AddDimension(entity.Dimension{ID: dimVolumen, Code: "VOL", Name: "Volumen", Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: uLitro, Symbol: "L", DimensionID: dimVolumen, IsBase: true, Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: uGalon, Symbol: "GAL", DimensionID: dimVolumen, Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: uBalde, Symbol: "BAL", DimensionID: dimVolumen, Active: true})
	s.AddRelation(entity.UnitRelation{ID: "r1", DimensionID: dimVolumen, BaseUnitID: uLitro, RelatedUnitID: uGalon,
		Factor: decimal.RequireFromString("3.785"), Active: true})
	s.AddItem(entity.Item{ID: itemAceite, Code: "ACE", Name: "Aceite 15W40", Kind: entity.ItemKindConsumible, DimensionID: dimVolumen, DefaultUnitID: uLitro})
	s.AddItem(entity.Item{ID: itemFiltro, Code: "FIL", Name: "Filtro de aceite", Kind: entity.ItemKindRepuesto})
	s.AddMachine(entity.Machine{ID: maquina, Code: "EXC-01", Name: "Excavadora 320"})
	s.AddWarehouse(entity.Warehouse{ID: almacen, Name: "Central"})
	s.AddSupplier(proveedor, "Repuestos del Sur")

	r := s.Repos()
	kardexUC := inventory.NewKardexUseCase(s, r.Items, r.Kardex, r.Catalog, pdf.NewMarotoPDFGenerator("test"), nil, nil)
	unitUC := inventory.NewUnitUseCase(s, r.Units, r.Intervals, s.Machines(), nil, nil)
	purchaseUC := purchase.NewRegisterPurchaseUseCase(s, r.Purchases, kardexUC, unitUC, purchase.Config{}, nil, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CatalogUC:    catalog.NewUseCase(r.Catalog, nil),
		MasterDataUC: masterdata.NewUseCase(s.Items(), r.Catalog, s.Warehouses(), s.Machines(), nil),
		PurchaseUC:   purchaseUC,
		KardexUC:     kardexUC,
		UnitUC:       unitUC,
		Tokens:       testTokens,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func compraJSON(code string, lines ...fiber.Map) fiber.Map {
	return fiber.Map{
		"date":          "2024-06-03T00:00:00Z",
		"supplier_id":   proveedor,
		"document_type": "FACTURA",
		"document_code": code,
		"currency":      "PEN",
		"warehouse_id":  almacen,
		"lines":         lines,
	}
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	app := nuevaApp(t)
	resp, _ := send(t, app, http.MethodGet, "/api/items/"+itemAceite+"/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CompraMixta_Retorna201(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodPost, "/api/purchases", apphttp.RoleCompras, compraJSON("F001-1",
		fiber.Map{"item_id": itemFiltro, "quantity": "2", "amount_kind": "UNIT_COST", "amount": "59"},
		fiber.Map{"item_id": itemAceite, "quantity": "10", "unit_id": uGalon, "amount_kind": "TOTAL_VALUE", "amount": "100"},
	))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Lines, 2)
	assert.Equal(t, []string{"FIL-00001", "FIL-00002"}, out.Lines[0].Serials)
	assert.Equal(t, "2.6420", out.Lines[1].BaseQuantity.StringFixed(4))
	assert.Equal(t, "118.00", out.Lines[1].TotalCost.StringFixed(2))

	resp, body = send(t, app, http.MethodGet, "/api/items/"+itemAceite+"/balance", apphttp.RoleTecnico, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bal dto.BalanceDTO
	require.NoError(t, json.Unmarshal(body, &bal))
	assert.Equal(t, "118.00", bal.TotalCost.StringFixed(2))
	assert.Equal(t, uLitro, bal.BaseUnitID)
}

func TestRouter_CompraConLineaSinFactor_Retorna422ConDetalle(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodPost, "/api/purchases", apphttp.RoleAdmin, compraJSON("F001-2",
		fiber.Map{"item_id": itemFiltro, "quantity": "1", "amount_kind": "UNIT_VALUE", "amount": "10"},
		fiber.Map{"item_id": itemAceite, "quantity": "1", "unit_id": uBalde, "amount_kind": "UNIT_VALUE", "amount": "50"},
	))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

	var out struct {
		Code    string             `json:"code"`
		Details []dto.LineErrorDTO `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "PURCHASE_REJECTED", out.Code)
	require.Len(t, out.Details, 1)
	assert.Equal(t, 2, out.Details[0].Index)
	assert.Equal(t, "MISSING_CONVERSION_FACTOR", out.Details[0].Code)

	// nada quedó registrado
	resp, body = send(t, app, http.MethodGet, "/api/items/"+itemAceite+"/kardex", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
}

func TestRouter_CompraInvalida_Retorna400ConCampos(t *testing.T) {
	app := nuevaApp(t)
	req := compraJSON("F001-3", fiber.Map{"item_id": "no-uuid", "quantity": "1", "amount_kind": "UNIT_VALUE", "amount": "1"})
	req["document_type"] = "RECIBO"

	resp, body := send(t, app, http.MethodPost, "/api/purchases", apphttp.RoleAdmin, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Details, "document_type")
	assert.Contains(t, out.Details, "lines[0].item_id")
}

func TestRouter_TecnicoNoRegistraCompras(t *testing.T) {
	app := nuevaApp(t)
	resp, _ := send(t, app, http.MethodPost, "/api/purchases", apphttp.RoleTecnico, compraJSON("F001-4"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_SalidaSinStock_Retorna409(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodPost, "/api/items/"+itemAceite+"/issues", apphttp.RoleAlmacenero, fiber.Map{
		"date": "2024-06-04T00:00:00Z", "quantity": "1", "reference": "OT-1",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")
}

func TestRouter_EntradaYSalida_Retorna201(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodPost, "/api/items/"+itemAceite+"/receipts", apphttp.RoleJefeAlmacen, fiber.Map{
		"date": "2024-06-01T00:00:00Z", "quantity": "10", "unit_cost": "5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = send(t, app, http.MethodPost, "/api/items/"+itemAceite+"/issues", apphttp.RoleAlmacenero, fiber.Map{
		"date": "2024-06-02T00:00:00Z", "quantity": "4", "unit_id": uLitro, "machine_id": maquina,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.PostingResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "6", out.Entry.BalanceQuantity.String())
	assert.Equal(t, "30", out.Entry.BalanceCost.StringFixed(0))

	resp, body = send(t, app, http.MethodGet, "/api/items/"+itemAceite+"/kardex?from=2024-06-02&to=2024-06-02", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []dto.KardexEntryDTO
	require.NoError(t, json.Unmarshal(body, &rows))
	assert.Len(t, rows, 1)
}

func TestRouter_RangoDeFechasInvalido_Retorna400(t *testing.T) {
	app := nuevaApp(t)
	resp, _ := send(t, app, http.MethodGet, "/api/items/"+itemAceite+"/kardex?from=ayer", apphttp.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_KardexPDF(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodGet, "/api/items/"+itemAceite+"/kardex.pdf", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "kardex-ACE.pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRouter_CicloDeVidaDeUnidad(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodPost, "/api/purchases", apphttp.RoleAdmin, compraJSON("F001-5",
		fiber.Map{"item_id": itemFiltro, "quantity": "1", "amount_kind": "UNIT_COST", "amount": "59"},
	))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var compra dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(body, &compra))
	unitID := compra.Lines[0].UnitIDs[0]

	resp, body = send(t, app, http.MethodPost, "/api/units/"+unitID+"/transitions", apphttp.RoleTecnico, fiber.Map{
		"state": "USADO", "machine_id": maquina, "at": "2024-06-10T08:00:00Z",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = send(t, app, http.MethodGet, "/api/units/"+unitID+"/history", apphttp.RoleTecnico, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []dto.IntervalDTO
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 2)
	assert.NotNil(t, history[0].End)
	assert.Nil(t, history[1].End)
	assert.Equal(t, "MACHINE", history[1].Location.Kind)

	resp, body = send(t, app, http.MethodGet, "/api/machines/"+maquina+"/cost-center", apphttp.RoleJefeTecnicos, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cc dto.CostCenterDTO
	require.NoError(t, json.Unmarshal(body, &cc))
	assert.Equal(t, "59.00", cc.TotalCost.StringFixed(2))

	// transición anterior al intervalo vigente
	resp, body = send(t, app, http.MethodPost, "/api/units/"+unitID+"/transitions", apphttp.RoleTecnico, fiber.Map{
		"state": "USADO", "warehouse_id": almacen, "at": "2024-06-05T08:00:00Z",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "NON_MONOTONIC_TIME")
}

func TestRouter_TransicionConDosUbicaciones_Retorna400(t *testing.T) {
	app := nuevaApp(t)
	resp, _ := send(t, app, http.MethodPost, "/api/units/50000000-0000-0000-0000-000000000001/transitions", apphttp.RoleAdmin, fiber.Map{
		"state": "USADO", "machine_id": maquina, "warehouse_id": almacen, "at": "2024-06-10T08:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_UnidadInexistente_Retorna404(t *testing.T) {
	app := nuevaApp(t)
	resp, body := send(t, app, http.MethodGet, "/api/units/50000000-0000-0000-0000-000000000009/location", apphttp.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestRouter_AltaDeInsumoYConsulta(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodPost, "/api/items", apphttp.RoleJefeAlmacen, fiber.Map{
		"code": "grasa", "name": "Grasa multipropósito", "kind": "CONSUMIBLE", "dimension_id": dimVolumen,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &item))
	assert.Equal(t, "GRASA", item.Code)
	assert.Equal(t, uLitro, item.DefaultUnitID)

	resp, body = send(t, app, http.MethodGet, "/api/items/"+item.ID, apphttp.RoleTecnico, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Grasa multipropósito")

	resp, _ = send(t, app, http.MethodPost, "/api/items", apphttp.RoleTecnico, fiber.Map{
		"code": "X", "name": "X", "kind": "REPUESTO",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_AlmacenesYMaquinarias(t *testing.T) {
	app := nuevaApp(t)

	resp, body := send(t, app, http.MethodGet, "/api/warehouses?limit=10", apphttp.RoleAlmacenero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.WarehouseListResponse
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Central", page.Items[0].Name)

	resp, body = send(t, app, http.MethodPost, "/api/machines", apphttp.RoleJefeTecnicos, fiber.Map{
		"code": "EXC-01", "name": "Repetida",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	resp, _ = send(t, app, http.MethodGet, "/api/machines/"+maquina, apphttp.RoleTecnico, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
