package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

var _ repository.ItemUnitRepository = (*ItemUnitRepo)(nil)

// ItemUnitRepo implementación de ItemUnitRepository sobre PostgreSQL.
// La ubicación se guarda en dos columnas (location_kind, location_id), ambas NULL si no hay ubicación.
type ItemUnitRepo struct {
	q Querier
}

// NewItemUnitRepository construye el adaptador de unidades. Pasar pool o tx (Querier).
func NewItemUnitRepository(q Querier) *ItemUnitRepo {
	return &ItemUnitRepo{q: q}
}

const itemUnitColumns = `
	id, item_id, serial, state, location_kind, location_id, location_since,
	last_transition, purchase_line_id, acquisition_cost, created_at`

func scanItemUnit(row interface{ Scan(...any) error }) (*entity.ItemUnit, error) {
	var u entity.ItemUnit
	var state string
	var locKind, locID, purchaseLineID *string
	var since, last *time.Time
	err := row.Scan(
		&u.ID, &u.ItemID, &u.Serial, &state, &locKind, &locID, &since,
		&last, &purchaseLineID, &u.AcquisitionCost, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.State = entity.UnitState(state)
	u.Location = entity.Location{Kind: entity.LocationKind(derefString(locKind)), ID: derefString(locID)}
	u.LocationSince = derefTime(since)
	u.LastTransition = derefTime(last)
	u.PurchaseLineID = derefString(purchaseLineID)
	return &u, nil
}

func (r *ItemUnitRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ItemUnit, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()
	var list []*entity.ItemUnit
	for rows.Next() {
		u, err := scanItemUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create persiste una unidad nueva. Serie repetida -> domain.ErrDuplicate.
func (r *ItemUnitRepo) Create(ctx context.Context, u *entity.ItemUnit) error {
	query := `
		INSERT INTO item_units (` + itemUnitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.ItemID, u.Serial, string(u.State),
		nullString(string(u.Location.Kind)), nullString(u.Location.ID), nullTime(u.LocationSince),
		nullTime(u.LastTransition), nullString(u.PurchaseLineID), u.AcquisitionCost, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID.
func (r *ItemUnitRepo) GetByID(ctx context.Context, id string) (*entity.ItemUnit, error) {
	u, err := scanItemUnit(r.q.QueryRow(ctx, `SELECT `+itemUnitColumns+` FROM item_units WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item unit: %w", err)
	}
	return u, nil
}

// GetForUpdate obtiene la unidad y bloquea su fila (SELECT FOR UPDATE).
func (r *ItemUnitRepo) GetForUpdate(ctx context.Context, id string) (*entity.ItemUnit, error) {
	u, err := scanItemUnit(r.q.QueryRow(ctx, `SELECT `+itemUnitColumns+` FROM item_units WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item unit for update: %w", err)
	}
	return u, nil
}

// Update guarda estado y ubicación vigentes (caché del intervalo abierto).
func (r *ItemUnitRepo) Update(ctx context.Context, u *entity.ItemUnit) error {
	query := `
		UPDATE item_units
		SET state = $2, location_kind = $3, location_id = $4, location_since = $5, last_transition = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, string(u.State), nullString(string(u.Location.Kind)), nullString(u.Location.ID),
		nullTime(u.LocationSince), nullTime(u.LastTransition),
	)
	if err != nil {
		return fmt.Errorf("update item unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAtLocation lista las unidades ubicadas hoy en loc, por serie.
func (r *ItemUnitRepo) ListAtLocation(ctx context.Context, loc entity.Location) ([]*entity.ItemUnit, error) {
	if loc.IsNone() {
		list, err := r.list(ctx, `SELECT `+itemUnitColumns+` FROM item_units WHERE location_kind IS NULL ORDER BY serial`)
		if err != nil {
			return nil, fmt.Errorf("list unlocated units: %w", err)
		}
		return list, nil
	}
	query := `SELECT ` + itemUnitColumns + `
		FROM item_units WHERE location_kind = $1 AND location_id = $2
		ORDER BY serial`
	list, err := r.list(ctx, query, string(loc.Kind), loc.ID)
	if err != nil {
		return nil, fmt.Errorf("list units at location: %w", err)
	}
	return list, nil
}

// ListAssignable lista las unidades del item en algún almacén que no están inoperativas.
func (r *ItemUnitRepo) ListAssignable(ctx context.Context, itemID string) ([]*entity.ItemUnit, error) {
	query := `SELECT ` + itemUnitColumns + `
		FROM item_units
		WHERE item_id = $1 AND location_kind = $2 AND state <> $3
		ORDER BY serial`
	list, err := r.list(ctx, query, itemID, string(entity.LocationWarehouse), string(entity.UnitStateInoperativo))
	if err != nil {
		return nil, fmt.Errorf("list assignable units: %w", err)
	}
	return list, nil
}
