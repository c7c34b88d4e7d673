package entity

import "fmt"

// Tipos de ubicación de una unidad.
type LocationKind string

const (
	LocationNone      LocationKind = ""
	LocationWarehouse LocationKind = "WAREHOUSE"
	LocationMachine   LocationKind = "MACHINE"
	LocationWorker    LocationKind = "WORKER"
)

// Location es la ubicación única de una unidad: almacén, maquinaria, trabajador o ninguna.
// El valor cero es "sin ubicación".
type Location struct {
	Kind LocationKind
	ID   string
}

// NoLocation devuelve la ubicación vacía.
func NoLocation() Location { return Location{} }

// AtWarehouse ubica en un almacén.
func AtWarehouse(id string) Location { return Location{Kind: LocationWarehouse, ID: id} }

// AtMachine ubica en una maquinaria.
func AtMachine(id string) Location { return Location{Kind: LocationMachine, ID: id} }

// AtWorker ubica en poder de un trabajador.
func AtWorker(id string) Location { return Location{Kind: LocationWorker, ID: id} }

// IsNone indica si no hay ubicación.
func (l Location) IsNone() bool { return l.Kind == LocationNone }

// Valid verifica que el tipo sea conocido y que solo la ubicación vacía carezca de ID.
func (l Location) Valid() bool {
	switch l.Kind {
	case LocationNone:
		return l.ID == ""
	case LocationWarehouse, LocationMachine, LocationWorker:
		return l.ID != ""
	}
	return false
}

func (l Location) String() string {
	if l.IsNone() {
		return "NONE"
	}
	return fmt.Sprintf("%s(%s)", l.Kind, l.ID)
}

// ParseLocation construye la ubicación a partir de los tres IDs opcionales de una petición.
// Más de uno informado es inválido.
func ParseLocation(warehouseID, machineID, workerID string) (Location, bool) {
	var loc Location
	n := 0
	if warehouseID != "" {
		loc, n = AtWarehouse(warehouseID), n+1
	}
	if machineID != "" {
		loc, n = AtMachine(machineID), n+1
	}
	if workerID != "" {
		loc, n = AtWorker(workerID), n+1
	}
	if n > 1 {
		return Location{}, false
	}
	return loc, true
}
