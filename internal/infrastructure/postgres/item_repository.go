package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository = (*ItemRepo)(nil)
	_ repository.ItemRegistry   = (*ItemRepo)(nil)
)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de insumos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, code, name, kind, dimension_id, default_unit_id, last_serial, created_at, updated_at`

func (r *ItemRepo) get(ctx context.Context, query, id string) (*entity.Item, error) {
	var it entity.Item
	var kind string
	var dimensionID, defaultUnitID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Code, &it.Name, &kind, &dimensionID, &defaultUnitID,
		&it.LastSerial, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Kind = entity.ItemKind(kind)
	it.DimensionID = derefString(dimensionID)
	it.DefaultUnitID = derefString(defaultUnitID)
	return &it, nil
}

// Create persiste un insumo nuevo.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, code, name, kind, dimension_id, default_unit_id, last_serial, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Code, it.Name, string(it.Kind), nullString(it.DimensionID), nullString(it.DefaultUnitID),
		it.LastSerial, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el insumo y bloquea su fila hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	it, err := r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return it, nil
}

// ReserveSerials avanza el correlativo en n y devuelve el primer número reservado.
func (r *ItemRepo) ReserveSerials(ctx context.Context, itemID string, n int) (int, error) {
	if n <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	query := `
		UPDATE items SET last_serial = last_serial + $2, updated_at = now()
		WHERE id = $1
		RETURNING last_serial`
	var last int
	if err := r.q.QueryRow(ctx, query, itemID, n).Scan(&last); err != nil {
		if isNotFound(err) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("reserve serials: %w", err)
	}
	return last - n + 1, nil
}
