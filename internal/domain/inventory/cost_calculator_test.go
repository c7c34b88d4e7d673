package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Maquinaria-api/internal/domain/inventory"
)

func TestWeightedAverageCost(t *testing.T) {
	cases := []struct {
		name                       string
		stock, cost, qtyIn, costIn string
		want                       string
	}{
		{"sin stock previo", "0", "0", "10", "5", "5"},
		{"mezcla de costos", "10", "50", "10", "7", "6"},
		{"entrada sin cantidad", "4", "20", "0", "9", "5"},
		{"saldo vacío y entrada cero", "0", "0", "0", "9", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(dec(tc.stock), dec(tc.cost), dec(tc.qtyIn), dec(tc.costIn))
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}
