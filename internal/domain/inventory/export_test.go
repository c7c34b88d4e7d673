package inventory

import (
	"time"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

var Replay = replay

// Lifecycle mantiene en memoria una unidad y su historial completo.
type Lifecycle struct {
	unit      *entity.ItemUnit
	intervals []*entity.LocationInterval
}

// NewLifecycle arma el ciclo de vida a partir del historial ordenado por inicio.
func NewLifecycle(unit *entity.ItemUnit, intervals []*entity.LocationInterval) *Lifecycle {
	return &Lifecycle{unit: unit, intervals: intervals}
}

// Transition aplica una transición y la agrega al historial.
func (l *Lifecycle) Transition(state entity.UnitState, loc entity.Location, at time.Time) (Change, error) {
	ch, err := Transition(l.unit, l.Current(), state, loc, at)
	if err != nil {
		return Change{}, err
	}
	if ch.Opened != nil {
		l.intervals = append(l.intervals, ch.Opened)
	}
	return ch, nil
}

// Current devuelve el intervalo vigente o nil.
func (l *Lifecycle) Current() *entity.LocationInterval {
	if n := len(l.intervals); n > 0 && l.intervals[n-1].IsOpen() {
		return l.intervals[n-1]
	}
	return nil
}

// History devuelve los intervalos cerrados y el vigente, en orden.
func (l *Lifecycle) History() []*entity.LocationInterval { return l.intervals }

// Unit devuelve la unidad con su estado y ubicación actuales.
func (l *Lifecycle) Unit() *entity.ItemUnit { return l.unit }
