package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementa el catálogo de dimensiones, unidades y equivalencias sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// CreateDimension persiste una dimensión.
func (r *CatalogRepo) CreateDimension(ctx context.Context, d *entity.Dimension) error {
	query := `
		INSERT INTO dimensions (id, code, name, active, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, d.ID, d.Code, d.Name, d.Active, d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dimension: %w", err)
	}
	return nil
}

// GetDimension obtiene una dimensión por ID.
func (r *CatalogRepo) GetDimension(ctx context.Context, id string) (*entity.Dimension, error) {
	query := `SELECT id, code, name, active, created_at FROM dimensions WHERE id = $1`
	var d entity.Dimension
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Code, &d.Name, &d.Active, &d.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dimension: %w", err)
	}
	return &d, nil
}

// CreateUnit persiste una unidad de medida. El índice parcial de la tabla rechaza una segunda unidad base.
func (r *CatalogRepo) CreateUnit(ctx context.Context, u *entity.UnitOfMeasure) error {
	query := `
		INSERT INTO units_of_measure (id, name, symbol, dimension_id, is_base, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Symbol, u.DimensionID, u.IsBase, u.Active, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

const unitColumns = `id, name, symbol, dimension_id, is_base, active, created_at`

func scanUnit(row interface{ Scan(...any) error }) (*entity.UnitOfMeasure, error) {
	var u entity.UnitOfMeasure
	if err := row.Scan(&u.ID, &u.Name, &u.Symbol, &u.DimensionID, &u.IsBase, &u.Active, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUnit obtiene una unidad por ID.
func (r *CatalogRepo) GetUnit(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM units_of_measure WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

// GetBaseUnit obtiene la unidad base activa de una dimensión.
func (r *CatalogRepo) GetBaseUnit(ctx context.Context, dimensionID string) (*entity.UnitOfMeasure, error) {
	query := `SELECT ` + unitColumns + ` FROM units_of_measure WHERE dimension_id = $1 AND is_base AND active`
	u, err := scanUnit(r.q.QueryRow(ctx, query, dimensionID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get base unit: %w", err)
	}
	return u, nil
}

// ListUnits lista las unidades de una dimensión, la base primero.
func (r *CatalogRepo) ListUnits(ctx context.Context, dimensionID string) ([]*entity.UnitOfMeasure, error) {
	query := `SELECT ` + unitColumns + ` FROM units_of_measure WHERE dimension_id = $1 ORDER BY is_base DESC, symbol`
	rows, err := r.q.Query(ctx, query, dimensionID)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitOfMeasure
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CreateUnitRelation persiste una equivalencia entre la unidad base y otra unidad de la dimensión.
func (r *CatalogRepo) CreateUnitRelation(ctx context.Context, rel *entity.UnitRelation) error {
	query := `
		INSERT INTO unit_relations (id, dimension_id, base_unit_id, related_unit_id, factor, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		rel.ID, rel.DimensionID, rel.BaseUnitID, rel.RelatedUnitID, rel.Factor, rel.Active, rel.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit relation: %w", err)
	}
	return nil
}

// GetUnitRelation obtiene la equivalencia (activa o no) entre dos unidades.
func (r *CatalogRepo) GetUnitRelation(ctx context.Context, baseUnitID, relatedUnitID string) (*entity.UnitRelation, error) {
	query := `
		SELECT id, dimension_id, base_unit_id, related_unit_id, factor, active, created_at
		FROM unit_relations WHERE base_unit_id = $1 AND related_unit_id = $2`
	var rel entity.UnitRelation
	err := r.q.QueryRow(ctx, query, baseUnitID, relatedUnitID).Scan(
		&rel.ID, &rel.DimensionID, &rel.BaseUnitID, &rel.RelatedUnitID, &rel.Factor, &rel.Active, &rel.CreatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit relation: %w", err)
	}
	return &rel, nil
}
