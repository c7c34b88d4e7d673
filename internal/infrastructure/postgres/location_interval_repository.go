package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

var _ repository.LocationIntervalRepository = (*LocationIntervalRepo)(nil)

// LocationIntervalRepo guarda el historial de ubicaciones. Las filas solo se insertan o se cierran.
type LocationIntervalRepo struct {
	q Querier
}

// NewLocationIntervalRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewLocationIntervalRepository(q Querier) *LocationIntervalRepo {
	return &LocationIntervalRepo{q: q}
}

const intervalColumns = `id, item_unit_id, location_kind, location_id, state, start_at, end_at`

func scanInterval(row interface{ Scan(...any) error }) (*entity.LocationInterval, error) {
	var in entity.LocationInterval
	var kind, state string
	var end *time.Time
	if err := row.Scan(&in.ID, &in.ItemUnitID, &kind, &in.Location.ID, &state, &in.Start, &end); err != nil {
		return nil, err
	}
	in.Location.Kind = entity.LocationKind(kind)
	in.State = entity.UnitState(state)
	in.End = end
	return &in, nil
}

// Create inserta un intervalo. El índice parcial ux_location_intervals_open impide dos intervalos abiertos.
func (r *LocationIntervalRepo) Create(ctx context.Context, in *entity.LocationInterval) error {
	query := `INSERT INTO location_intervals (` + intervalColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		in.ID, in.ItemUnitID, string(in.Location.Kind), in.Location.ID, string(in.State), in.Start, in.End,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert location interval: %w", err)
	}
	return nil
}

// Close fija end_at del intervalo abierto.
func (r *LocationIntervalRepo) Close(ctx context.Context, in *entity.LocationInterval) error {
	if in.End == nil {
		return domain.ErrInvalidInput
	}
	query := `UPDATE location_intervals SET end_at = $2 WHERE id = $1 AND end_at IS NULL`
	tag, err := r.q.Exec(ctx, query, in.ID, *in.End)
	if err != nil {
		return fmt.Errorf("close location interval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// GetOpen obtiene el intervalo vigente de la unidad (nil si no está ubicada).
func (r *LocationIntervalRepo) GetOpen(ctx context.Context, itemUnitID string) (*entity.LocationInterval, error) {
	query := `SELECT ` + intervalColumns + ` FROM location_intervals WHERE item_unit_id = $1 AND end_at IS NULL`
	in, err := scanInterval(r.q.QueryRow(ctx, query, itemUnitID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open interval: %w", err)
	}
	return in, nil
}

// ListByUnit devuelve el historial completo de la unidad en orden cronológico.
func (r *LocationIntervalRepo) ListByUnit(ctx context.Context, itemUnitID string) ([]*entity.LocationInterval, error) {
	query := `SELECT ` + intervalColumns + ` FROM location_intervals WHERE item_unit_id = $1 ORDER BY start_at, end_at NULLS LAST`
	rows, err := r.q.Query(ctx, query, itemUnitID)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocationInterval
	for rows.Next() {
		in, err := scanInterval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}
