package inventory

import "fmt"

// SerialFor arma la serie de una unidad: código del item y correlativo de 5 dígitos (ABC-00012).
func SerialFor(itemCode string, n int) string {
	return fmt.Sprintf("%s-%05d", itemCode, n)
}
