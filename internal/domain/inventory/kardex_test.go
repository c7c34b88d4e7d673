package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/inventory"
)

func dia(d int) time.Time {
	return time.Date(2024, 5, d, 8, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestKardex_PromedioPonderado(t *testing.T) {
	k := inventory.NewKardex("ACEITE", inventory.Balance{}, nil)

	p, err := k.Receive(dec("10"), dec("5"), dia(1))
	require.NoError(t, err)
	assert.True(t, p.Entry.AvgUnitCost.Equal(dec("5")))

	p, err = k.Receive(dec("10"), dec("7"), dia(2))
	require.NoError(t, err)
	assert.True(t, p.Entry.AvgUnitCost.Equal(dec("6")))
	assert.True(t, p.Entry.OpeningQuantity.Equal(dec("10")))

	p, err = k.Issue(dec("5"), dia(3))
	require.NoError(t, err)
	assert.True(t, p.Entry.UnitCost.Equal(dec("6")), "la salida se valoriza al promedio")
	assert.True(t, p.Entry.BalanceQuantity.Equal(dec("15")))
	assert.True(t, p.Entry.BalanceCost.Equal(dec("90")))

	bal := k.Balance()
	assert.True(t, bal.Quantity.Equal(dec("15")))
	assert.True(t, bal.AvgUnitCost().Equal(dec("6")))
}

func TestKardex_SaldoEsEntradasMenosSalidas(t *testing.T) {
	k := inventory.NewKardex("ACEITE", inventory.Balance{}, nil)
	movs := []struct {
		in  bool
		qty string
	}{
		{true, "12.5"}, {false, "2.5"}, {true, "3"}, {false, "13"}, {true, "0.75"}, {false, "0.75"},
	}

	sum := decimal.Zero
	for i, m := range movs {
		var err error
		if m.in {
			_, err = k.Receive(dec(m.qty), dec("4.2"), dia(i+1))
			sum = sum.Add(dec(m.qty))
		} else {
			_, err = k.Issue(dec(m.qty), dia(i+1))
			sum = sum.Sub(dec(m.qty))
		}
		require.NoError(t, err)
		assert.True(t, k.Balance().Quantity.Equal(sum))
		assert.False(t, k.Balance().Quantity.IsNegative())
	}
	assert.True(t, k.Balance().Quantity.IsZero())
	assert.True(t, k.Balance().Cost.IsZero(), "sin stock no queda costo residual")
}

func TestKardex_StockInsuficiente(t *testing.T) {
	k := inventory.NewKardex("ACEITE", inventory.Balance{}, nil)
	_, err := k.Receive(dec("3"), dec("10"), dia(1))
	require.NoError(t, err)

	_, err = k.Issue(dec("4"), dia(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(dec("3")))
	assert.True(t, stockErr.Requested.Equal(dec("4")))

	assert.Len(t, k.Entries(), 1, "la salida rechazada no se registra")
	assert.True(t, k.Balance().Quantity.Equal(dec("3")))
}

func TestKardex_CantidadInvalida(t *testing.T) {
	k := inventory.NewKardex("ACEITE", inventory.Balance{}, nil)

	_, err := k.Receive(decimal.Zero, dec("1"), dia(1))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = k.Issue(dec("-1"), dia(1))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = k.Receive(dec("1"), dec("-1"), dia(1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestKardex_EntradaConFechaPasada_RecalculaPosteriores(t *testing.T) {
	k := inventory.NewKardex("ACEITE", inventory.Balance{}, nil)
	_, err := k.Receive(dec("10"), dec("5"), dia(1))
	require.NoError(t, err)
	_, err = k.Issue(dec("4"), dia(5))
	require.NoError(t, err)

	p, err := k.Receive(dec("10"), dec("7"), dia(3))
	require.NoError(t, err)

	require.Len(t, p.Restated, 1)
	assert.True(t, p.Restated[0].UnitCost.Equal(dec("6")), "la salida toma el promedio recalculado")
	assert.True(t, p.Restated[0].OpeningQuantity.Equal(dec("20")))
	assert.True(t, p.Restated[0].BalanceQuantity.Equal(dec("16")))

	entries := k.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, entity.EntryKindReceipt, entries[1].Kind)
	assert.True(t, k.Balance().Cost.Equal(dec("96")))
}

func TestKardex_SalidaConFechaPasadaDejaSinStock_SeRechaza(t *testing.T) {
	k := inventory.NewKardex("ACEITE", inventory.Balance{}, nil)
	_, err := k.Receive(dec("10"), dec("5"), dia(1))
	require.NoError(t, err)
	_, err = k.Issue(dec("8"), dia(5))
	require.NoError(t, err)

	_, err = k.Issue(dec("5"), dia(3))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, k.Entries(), 2)
	assert.True(t, k.Balance().Quantity.Equal(dec("2")))
}

func TestReplay_IgualAlRegistroIncremental(t *testing.T) {
	k := inventory.NewKardex("ACEITE", inventory.Balance{}, nil)
	_, _ = k.Receive(dec("10"), dec("5"), dia(1))
	_, _ = k.Issue(dec("4"), dia(5))
	_, _ = k.Receive(dec("10"), dec("7"), dia(3))

	r, err := inventory.Replay("ACEITE", k.Entries())
	require.NoError(t, err)
	assert.True(t, r.Balance().Quantity.Equal(k.Balance().Quantity))
	assert.True(t, r.Balance().Cost.Equal(k.Balance().Cost))
}

func TestNewKardex_VentanaConApertura(t *testing.T) {
	opening := inventory.Balance{Quantity: dec("10"), Cost: dec("50"), LastDate: dia(1)}
	k := inventory.NewKardex("ACEITE", opening, nil)

	p, err := k.Issue(dec("2"), dia(2))
	require.NoError(t, err)
	assert.True(t, p.Entry.UnitCost.Equal(dec("5")))
	assert.True(t, k.Balance().Quantity.Equal(dec("8")))
}

func TestSerialFor(t *testing.T) {
	assert.Equal(t, "FIL-00012", inventory.SerialFor("FIL", 12))
	assert.Equal(t, "FIL-123456", inventory.SerialFor("FIL", 123456))
}
