package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost devuelve el costo promedio tras una entrada:
// (costoAcumulado + cantEntrada*costoEntrada) / (stock + cantEntrada).
// Trabaja sobre el costo acumulado y no sobre el promedio previo, así el redondeo
// de un promedio no se arrastra a las filas siguientes.
func WeightedAverageCost(stock, accumulatedCost, qtyIn, unitCostIn decimal.Decimal) decimal.Decimal {
	total := stock.Add(qtyIn)
	if !total.IsPositive() {
		return decimal.Zero
	}
	return accumulatedCost.Add(qtyIn.Mul(unitCostIn)).Div(total)
}
