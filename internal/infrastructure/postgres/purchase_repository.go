package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// CreateHeader persiste la cabecera. Comprobante repetido (tipo + código) -> domain.ErrDuplicate.
func (r *PurchaseRepo) CreateHeader(ctx context.Context, h *entity.PurchaseHeader) error {
	query := `
		INSERT INTO purchases (
			id, date, supplier_id, document_type, document_code, currency, exchange_rate,
			warehouse_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.Date, h.SupplierID, h.DocumentType, h.DocumentCode, h.Currency, h.ExchangeRate,
		nullString(h.WarehouseID), h.CreatedAt, nullString(h.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateLine persiste una línea normalizada.
func (r *PurchaseRepo) CreateLine(ctx context.Context, l *entity.NormalizedPurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (
			id, purchase_id, line_index, item_id, item_kind, entered_quantity, entered_unit_id,
			base_quantity, base_unit_id, currency, unit_value, unit_cost, total_value, total_cost, base_unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.PurchaseID, l.LineIndex, l.ItemID, string(l.ItemKind), l.EnteredQuantity, l.EnteredUnitID,
		l.BaseQuantity, l.BaseUnitID, l.Currency, l.UnitValue, l.UnitCost, l.TotalValue, l.TotalCost, l.BaseUnitCost,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una compra en el orden ingresado.
func (r *PurchaseRepo) ListLines(ctx context.Context, purchaseID string) ([]*entity.NormalizedPurchaseLine, error) {
	query := `
		SELECT id, purchase_id, line_index, item_id, item_kind, entered_quantity, entered_unit_id,
			base_quantity, base_unit_id, currency, unit_value, unit_cost, total_value, total_cost, base_unit_cost
		FROM purchase_lines WHERE purchase_id = $1
		ORDER BY line_index`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.NormalizedPurchaseLine
	for rows.Next() {
		var l entity.NormalizedPurchaseLine
		var kind string
		err := rows.Scan(
			&l.ID, &l.PurchaseID, &l.LineIndex, &l.ItemID, &kind, &l.EnteredQuantity, &l.EnteredUnitID,
			&l.BaseQuantity, &l.BaseUnitID, &l.Currency, &l.UnitValue, &l.UnitCost, &l.TotalValue, &l.TotalCost, &l.BaseUnitCost,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		l.ItemKind = entity.ItemKind(kind)
		list = append(list, &l)
	}
	return list, rows.Err()
}

// SupplierPrices promedia el valor unitario pagado por el item, por proveedor y moneda.
func (r *PurchaseRepo) SupplierPrices(ctx context.Context, itemID string) ([]*entity.SupplierPrice, error) {
	query := `
		SELECT p.supplier_id, COALESCE(s.name, ''), l.currency, AVG(l.unit_value), COUNT(DISTINCT p.id)
		FROM purchase_lines l
		JOIN purchases p ON p.id = l.purchase_id
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE l.item_id = $1
		GROUP BY p.supplier_id, s.name, l.currency
		ORDER BY p.supplier_id, l.currency`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("supplier prices: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierPrice
	for rows.Next() {
		var sp entity.SupplierPrice
		if err := rows.Scan(&sp.SupplierID, &sp.SupplierName, &sp.Currency, &sp.AvgUnitValue, &sp.Purchases); err != nil {
			return nil, fmt.Errorf("scan supplier price: %w", err)
		}
		list = append(list, &sp)
	}
	return list, rows.Err()
}
