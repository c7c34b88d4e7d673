package entity

import "time"

// Warehouse representa un almacén donde se guardan unidades de repuesto.
type Warehouse struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Machine representa una maquinaria en la que se instalan repuestos.
type Machine struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
}
