package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquinaria-api/internal/application/ports"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/infrastructure/pdf"
)

func TestGenerateKardexPDF_ConMovimientos(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC) }
	report := &ports.KardexReport{
		Item:       &entity.Item{ID: "i1", Code: "ACE-15W40", Name: "Aceite 15W40", Kind: entity.ItemKindConsumible},
		BaseSymbol: "L",
		Entries: []*entity.KardexEntry{
			{Kind: entity.EntryKindReceipt, Date: d(1), QuantityIn: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5),
				BalanceQuantity: decimal.NewFromInt(10), BalanceCost: decimal.NewFromInt(50), AvgUnitCost: decimal.NewFromInt(5),
				Reference: "FACTURA F001-10"},
			{Kind: entity.EntryKindIssue, Date: d(2), QuantityOut: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(5),
				OpeningQuantity: decimal.NewFromInt(10), BalanceQuantity: decimal.NewFromInt(6), BalanceCost: decimal.NewFromInt(30),
				AvgUnitCost: decimal.NewFromInt(5), Reference: "OT-7", MachineID: "9f1c2d3e-0000-0000-0000-000000000000"},
		},
		Balance:     &entity.KardexBalance{Quantity: decimal.NewFromInt(6), Cost: decimal.NewFromInt(30)},
		GeneratedAt: d(3),
	}

	b, err := pdf.NewMarotoPDFGenerator("Minera Andina").GenerateKardexPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateKardexPDF_SinMovimientos(t *testing.T) {
	report := &ports.KardexReport{
		Item:        &entity.Item{ID: "i1", Code: "GRASA", Name: "Grasa multipropósito"},
		GeneratedAt: time.Now(),
	}
	b, err := pdf.NewMarotoPDFGenerator("").GenerateKardexPDF(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestGenerateKardexPDF_SinItem(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator("").GenerateKardexPDF(context.Background(), &ports.KardexReport{})
	assert.Error(t, err)
}
