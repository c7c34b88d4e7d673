package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

// KardexRepo persiste filas y saldos del kardex. El orden de las filas es (date, seq).
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador del kardex. Pasar pool o tx (Querier).
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

const kardexColumns = `
	id, item_id, seq, date, kind, quantity_in, quantity_out, unit_cost, opening_quantity,
	balance_quantity, balance_cost, avg_unit_cost, reference, machine_id, purchase_line_id,
	created_at, created_by`

func scanKardexEntry(row interface{ Scan(...any) error }) (*entity.KardexEntry, error) {
	var e entity.KardexEntry
	var kind string
	var reference, machineID, purchaseLineID, createdBy *string
	err := row.Scan(
		&e.ID, &e.ItemID, &e.Seq, &e.Date, &kind, &e.QuantityIn, &e.QuantityOut, &e.UnitCost,
		&e.OpeningQuantity, &e.BalanceQuantity, &e.BalanceCost, &e.AvgUnitCost,
		&reference, &machineID, &purchaseLineID, &e.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	e.Kind = entity.EntryKind(kind)
	e.Reference = derefString(reference)
	e.MachineID = derefString(machineID)
	e.PurchaseLineID = derefString(purchaseLineID)
	e.CreatedBy = derefString(createdBy)
	return &e, nil
}

func (r *KardexRepo) list(ctx context.Context, query string, args ...any) ([]*entity.KardexEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.KardexEntry
	for rows.Next() {
		e, err := scanKardexEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kardex entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Append inserta una fila; seq lo asigna la base de datos.
func (r *KardexRepo) Append(ctx context.Context, e *entity.KardexEntry) error {
	query := `
		INSERT INTO kardex_entries (
			id, item_id, date, kind, quantity_in, quantity_out, unit_cost, opening_quantity,
			balance_quantity, balance_cost, avg_unit_cost, reference, machine_id, purchase_line_id,
			created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING seq`
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err := r.q.QueryRow(ctx, query,
		e.ID, e.ItemID, e.Date, string(e.Kind), e.QuantityIn, e.QuantityOut, e.UnitCost, e.OpeningQuantity,
		e.BalanceQuantity, e.BalanceCost, e.AvgUnitCost, nullString(e.Reference), nullString(e.MachineID),
		nullString(e.PurchaseLineID), createdAt, nullString(e.CreatedBy),
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("insert kardex entry: %w", err)
	}
	e.CreatedAt = createdAt
	return nil
}

// GetBalance obtiene el saldo materializado; saldo cero si el item no tiene movimientos.
func (r *KardexRepo) GetBalance(ctx context.Context, itemID string) (*entity.KardexBalance, error) {
	query := `SELECT item_id, quantity, cost, last_date, updated_at FROM kardex_balances WHERE item_id = $1`
	var b entity.KardexBalance
	var lastDate *time.Time
	err := r.q.QueryRow(ctx, query, itemID).Scan(&b.ItemID, &b.Quantity, &b.Cost, &lastDate, &b.UpdatedAt)
	if err != nil {
		if isNotFound(err) {
			return &entity.KardexBalance{ItemID: itemID, Quantity: decimal.Zero, Cost: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get kardex balance: %w", err)
	}
	b.LastDate = derefTime(lastDate)
	return &b, nil
}

// SaveBalance inserta o actualiza el saldo del item.
func (r *KardexRepo) SaveBalance(ctx context.Context, b *entity.KardexBalance) error {
	query := `
		INSERT INTO kardex_balances (item_id, quantity, cost, last_date, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, cost = EXCLUDED.cost,
			last_date = EXCLUDED.last_date, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, b.ItemID, b.Quantity, b.Cost, nullTime(b.LastDate)); err != nil {
		return fmt.Errorf("upsert kardex balance: %w", err)
	}
	return nil
}

// LastAtOrBefore devuelve la última fila con fecha <= date (nil si no hay).
func (r *KardexRepo) LastAtOrBefore(ctx context.Context, itemID string, date time.Time) (*entity.KardexEntry, error) {
	query := `SELECT ` + kardexColumns + `
		FROM kardex_entries WHERE item_id = $1 AND date <= $2
		ORDER BY date DESC, seq DESC LIMIT 1`
	e, err := scanKardexEntry(r.q.QueryRow(ctx, query, itemID, date))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kardex entry: %w", err)
	}
	return e, nil
}

// ListAfter devuelve en orden las filas con fecha > date.
func (r *KardexRepo) ListAfter(ctx context.Context, itemID string, date time.Time) ([]*entity.KardexEntry, error) {
	query := `SELECT ` + kardexColumns + `
		FROM kardex_entries WHERE item_id = $1 AND date > $2
		ORDER BY date, seq`
	list, err := r.list(ctx, query, itemID, date)
	if err != nil {
		return nil, fmt.Errorf("list kardex after: %w", err)
	}
	return list, nil
}

// RestateBalances reescribe solo las columnas derivadas de las filas recibidas.
func (r *KardexRepo) RestateBalances(ctx context.Context, entries []*entity.KardexEntry) error {
	query := `
		UPDATE kardex_entries
		SET unit_cost = $2, opening_quantity = $3, balance_quantity = $4, balance_cost = $5, avg_unit_cost = $6
		WHERE id = $1`
	for _, e := range entries {
		_, err := r.q.Exec(ctx, query,
			e.ID, e.UnitCost, e.OpeningQuantity, e.BalanceQuantity, e.BalanceCost, e.AvgUnitCost,
		)
		if err != nil {
			return fmt.Errorf("restate kardex entry %s: %w", e.ID, err)
		}
	}
	return nil
}

// ListByItem lista el kardex del item en orden, opcionalmente acotado por fechas (inclusive).
func (r *KardexRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time) ([]*entity.KardexEntry, error) {
	query := `SELECT ` + kardexColumns + `
		FROM kardex_entries
		WHERE item_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date, seq`
	list, err := r.list(ctx, query, itemID, from, to)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list kardex: %w", err)
	}
	return list, nil
}
