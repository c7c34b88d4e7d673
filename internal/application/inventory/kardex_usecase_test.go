package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports/portstest"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

func fecha(d int) time.Time { return time.Date(2024, 7, d, 10, 0, 0, 0, time.UTC) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type pdfFake struct {
	report *ports.KardexReport
}

func (f *pdfFake) GenerateKardexPDF(_ context.Context, r *ports.KardexReport) ([]byte, error) {
	f.report = r
	return []byte("%PDF-1.4"), nil
}

func nuevoStore() *portstest.Store {
	s := portstest.NewStore()
	s.AddDimension(entity.Dimension{ID: "VOLUMEN", Code: "VOL", Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: "LITRO", Symbol: "L", DimensionID: "VOLUMEN", IsBase: true, Active: true})
	s.AddUnit(entity.UnitOfMeasure{ID: "CUARTO", Symbol: "QT", DimensionID: "VOLUMEN", Active: true})
	s.AddRelation(entity.UnitRelation{ID: "R1", BaseUnitID: "LITRO", RelatedUnitID: "CUARTO", Factor: dec("4"), Active: true})
	s.AddItem(entity.Item{ID: "ACEITE", Code: "ACE", Kind: entity.ItemKindConsumible, DimensionID: "VOLUMEN", DefaultUnitID: "LITRO"})
	s.AddItem(entity.Item{ID: "FILTRO", Code: "FIL", Kind: entity.ItemKindRepuesto, DefaultUnitID: "UNIDAD"})
	return s
}

func nuevoKardex(s *portstest.Store, pdf ports.KardexPDFGenerator) *appinventory.KardexUseCase {
	r := s.Repos()
	return appinventory.NewKardexUseCase(s, r.Items, r.Kardex, r.Catalog, pdf, nil, nil)
}

func TestKardexUseCase_EntradaYSalidaConConversion(t *testing.T) {
	s := nuevoStore()
	uc := nuevoKardex(s, nil)
	ctx := context.Background()

	_, err := uc.Receive(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(1), Quantity: dec("10"), UnitCost: dec("5")})
	require.NoError(t, err)

	// 8 cuartos = 2 litros
	out, err := uc.Issue(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(2), Quantity: dec("8"), UnitID: "CUARTO", Reference: "OT-77", MachineID: "M5"})
	require.NoError(t, err)
	assert.True(t, out.Entry.QuantityOut.Equal(dec("2")))
	assert.True(t, out.Entry.UnitCost.Equal(dec("5")))
	assert.Equal(t, "M5", out.Entry.MachineID)

	bal, err := uc.Balance(ctx, "ACEITE")
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(dec("8")))
	assert.True(t, bal.AvgUnitCost.Equal(dec("5")))
	assert.Equal(t, "LITRO", bal.BaseUnitID)
}

func TestKardexUseCase_EntradaEnUnidadRelacionada_CostoPorUnidadBase(t *testing.T) {
	s := nuevoStore()
	uc := nuevoKardex(s, nil)

	// 4 cuartos a 3 c/u = 12 por 1 litro
	out, err := uc.Receive(context.Background(), appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(1), Quantity: dec("4"), UnitID: "CUARTO", UnitCost: dec("3")})
	require.NoError(t, err)
	assert.True(t, out.Entry.QuantityIn.Equal(dec("1")))
	assert.True(t, out.Entry.UnitCost.Equal(dec("12")))
	assert.True(t, out.Entry.BalanceCost.Equal(dec("12")))
}

func TestKardexUseCase_SalidaSinStock_NoRegistra(t *testing.T) {
	s := nuevoStore()
	uc := nuevoKardex(s, nil)
	ctx := context.Background()

	_, err := uc.Receive(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(1), Quantity: dec("1"), UnitCost: dec("5")})
	require.NoError(t, err)

	_, err = uc.Issue(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(2), Quantity: dec("3")})
	require.Error(t, err)
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(dec("1")))

	assert.Len(t, s.KardexEntries("ACEITE"), 1)
}

func TestKardexUseCase_EntradaConFechaPasada_RecalculaSaldos(t *testing.T) {
	s := nuevoStore()
	uc := nuevoKardex(s, nil)
	ctx := context.Background()

	_, err := uc.Receive(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(1), Quantity: dec("10"), UnitCost: dec("5")})
	require.NoError(t, err)
	_, err = uc.Issue(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(5), Quantity: dec("4")})
	require.NoError(t, err)

	out, err := uc.Receive(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(3), Quantity: dec("10"), UnitCost: dec("7")})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Restated)

	entries := s.KardexEntries("ACEITE")
	require.Len(t, entries, 3)
	assert.Equal(t, fecha(3), entries[1].Date)
	last := entries[2]
	assert.Equal(t, entity.EntryKindIssue, last.Kind)
	assert.True(t, last.UnitCost.Equal(dec("6")))
	assert.True(t, last.BalanceQuantity.Equal(dec("16")))

	bal, err := uc.Balance(ctx, "ACEITE")
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(dec("16")))
	assert.True(t, bal.TotalCost.Equal(dec("96")))
	require.NotNil(t, bal.LastDate)
	assert.Equal(t, fecha(5), *bal.LastDate)
}

func TestKardexUseCase_Repuesto_NoUsaKardex(t *testing.T) {
	s := nuevoStore()
	uc := nuevoKardex(s, nil)

	_, err := uc.Receive(context.Background(), appinventory.MovementInput{ItemID: "FILTRO", Date: fecha(1), Quantity: dec("1"), UnitCost: dec("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Balance(context.Background(), "FILTRO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKardexUseCase_ItemInexistente(t *testing.T) {
	s := nuevoStore()
	uc := nuevoKardex(s, nil)

	_, err := uc.Issue(context.Background(), appinventory.MovementInput{ItemID: "NADA", Date: fecha(1), Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKardexUseCase_CantidadCero(t *testing.T) {
	s := nuevoStore()
	uc := nuevoKardex(s, nil)

	_, err := uc.Issue(context.Background(), appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(1), Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestKardexUseCase_EntriesYPDF(t *testing.T) {
	s := nuevoStore()
	pdf := &pdfFake{}
	uc := nuevoKardex(s, pdf)
	ctx := context.Background()

	for d := 1; d <= 3; d++ {
		_, err := uc.Receive(ctx, appinventory.MovementInput{ItemID: "ACEITE", Date: fecha(d), Quantity: dec("1"), UnitCost: dec("2")})
		require.NoError(t, err)
	}

	from := fecha(2)
	list, err := uc.Entries(ctx, "ACEITE", &from, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	b, name, err := uc.ExportPDF(ctx, "ACEITE", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "kardex-ACE.pdf", name)
	assert.NotEmpty(t, b)
	require.NotNil(t, pdf.report)
	assert.Len(t, pdf.report.Entries, 3)
	assert.True(t, pdf.report.Balance.Quantity.Equal(dec("3")))
}
