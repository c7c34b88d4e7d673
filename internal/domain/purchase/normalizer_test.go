package purchase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/purchase"
)

var tolerancia = decimal.RequireFromString("0.000001")

func casiIgual(t *testing.T, esperado, obtenido decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, esperado.Sub(obtenido).Abs().LessThanOrEqual(tolerancia),
		"%s: esperado %s, obtenido %s", msg, esperado.String(), obtenido.String())
}

var kinds = []entity.AmountKind{
	entity.AmountUnitValue,
	entity.AmountUnitCost,
	entity.AmountTotalValue,
	entity.AmountTotalCost,
}

// reconstruir vuelve a calcular el monto ingresado partiendo solo del valor unitario.
func reconstruir(k entity.AmountKind, unitValue, q, tax decimal.Decimal) decimal.Decimal {
	switch k {
	case entity.AmountUnitCost:
		return unitValue.Mul(tax)
	case entity.AmountTotalValue:
		return unitValue.Mul(q)
	case entity.AmountTotalCost:
		return unitValue.Mul(tax).Mul(q)
	}
	return unitValue
}

// ingresado devuelve el campo de a que corresponde al monto ingresado con kind.
func ingresado(kind entity.AmountKind, a purchase.Amounts) decimal.Decimal {
	switch kind {
	case entity.AmountUnitCost:
		return a.UnitCost
	case entity.AmountTotalValue:
		return a.TotalValue
	case entity.AmountTotalCost:
		return a.TotalCost
	}
	return a.UnitValue
}

func TestNormalize_IdaYVuelta(t *testing.T) {
	n := purchase.NewNormalizer(decimal.Zero)
	montos := []string{"1", "100.00", "37.5", "0.33"}
	cantidades := []string{"1", "3", "2.642", "12.5"}

	for _, k := range kinds {
		for _, m := range montos {
			for _, q := range cantidades {
				amount := decimal.RequireFromString(m)
				qty := decimal.RequireFromString(q)

				a, err := n.Normalize(k, amount, qty)
				require.NoError(t, err)
				casiIgual(t, amount, reconstruir(k, a.UnitValue, qty, n.TaxFactor()), string(k)+" "+m+" x "+q)
				assert.True(t, amount.Equal(ingresado(k, a)))
			}
		}
	}
}

func TestNormalize_Invariantes(t *testing.T) {
	n := purchase.NewNormalizer(decimal.Zero)
	t18 := decimal.RequireFromString("1.18")
	qty := decimal.RequireFromString("7")

	for _, k := range kinds {
		a, err := n.Normalize(k, decimal.RequireFromString("59"), qty)
		require.NoError(t, err)
		casiIgual(t, a.UnitValue.Mul(t18), a.UnitCost, string(k)+" unitCost")
		casiIgual(t, a.UnitCost.Mul(qty), a.TotalCost, string(k)+" totalCost")
		casiIgual(t, a.UnitValue.Mul(qty), a.TotalValue, string(k)+" totalValue")
	}
}

func TestNormalize_TotalValue(t *testing.T) {
	n := purchase.NewNormalizer(decimal.RequireFromString("1.18"))

	a, err := n.Normalize(entity.AmountTotalValue, decimal.RequireFromString("100.00"), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "10.00", a.UnitValue.StringFixed(2))
	assert.Equal(t, "11.80", a.UnitCost.StringFixed(2))
	assert.Equal(t, "100.00", a.TotalValue.StringFixed(2))
	assert.Equal(t, "118.00", a.TotalCost.StringFixed(2))
}

func TestNormalize_Errores(t *testing.T) {
	n := purchase.NewNormalizer(decimal.Zero)

	_, err := n.Normalize(entity.AmountUnitValue, decimal.Zero, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = n.Normalize(entity.AmountUnitValue, decimal.NewFromInt(-5), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = n.Normalize(entity.AmountTotalValue, decimal.NewFromInt(5), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)

	_, err = n.Normalize(entity.AmountUnitCost, decimal.NewFromInt(5), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)

	_, err = n.Normalize(entity.AmountUnitCost, decimal.NewFromInt(5), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = n.Normalize("PRECIO", decimal.NewFromInt(5), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewNormalizer_FactorPorDefecto(t *testing.T) {
	assert.True(t, purchase.NewNormalizer(decimal.Zero).TaxFactor().Equal(purchase.DefaultTaxFactor))
	assert.True(t, purchase.NewNormalizer(decimal.RequireFromString("1.10")).TaxFactor().Equal(decimal.RequireFromString("1.1")))
}
