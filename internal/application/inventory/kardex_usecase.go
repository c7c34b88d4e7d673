package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
	"github.com/jhoicas/Maquinaria-api/internal/domain/uom"
	"github.com/jhoicas/Maquinaria-api/pkg/logger"
	"github.com/jhoicas/Maquinaria-api/pkg/metrics"
)

// KardexUseCase registra entradas y salidas de consumibles al costo promedio ponderado.
// Cada movimiento corre en una transacción con la fila del item bloqueada (SELECT FOR UPDATE),
// de modo que dos salidas concurrentes del mismo item quedan estrictamente ordenadas.
type KardexUseCase struct {
	txRunner ports.TxRunner
	itemRepo repository.ItemRepository
	kardex   repository.KardexRepository
	catalog  repository.CatalogReader
	pdf      ports.KardexPDFGenerator
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewKardexUseCase construye el caso de uso. pdf, log y m pueden ser nil.
func NewKardexUseCase(
	txRunner ports.TxRunner,
	itemRepo repository.ItemRepository,
	kardex repository.KardexRepository,
	catalog repository.CatalogReader,
	pdf ports.KardexPDFGenerator,
	log *logger.Logger,
	m *metrics.Metrics,
) *KardexUseCase {
	return &KardexUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		kardex:   kardex,
		catalog:  catalog,
		pdf:      pdf,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// MovementInput entrada para una salida o entrada manual. Quantity está en UnitID
// (vacío = unidad por defecto del item); UnitCost solo aplica a entradas y es por unidad ingresada.
type MovementInput struct {
	ItemID    string
	UserID    string
	Date      time.Time
	Quantity  decimal.Decimal
	UnitID    string
	UnitCost  decimal.Decimal
	Reference string
	MachineID string
}

// Issue registra una salida de consumo al costo promedio vigente en la fecha indicada.
func (uc *KardexUseCase) Issue(ctx context.Context, in MovementInput) (*dto.PostingResponse, error) {
	return uc.register(ctx, entity.EntryKindIssue, in)
}

// Receive registra una entrada manual (fuera de una compra).
func (uc *KardexUseCase) Receive(ctx context.Context, in MovementInput) (*dto.PostingResponse, error) {
	return uc.register(ctx, entity.EntryKindReceipt, in)
}

func (uc *KardexUseCase) register(ctx context.Context, kind entity.EntryKind, in MovementInput) (*dto.PostingResponse, error) {
	if in.ItemID == "" || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if kind == entity.EntryKindReceipt && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var posting *inventory.Posting
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		item, err := r.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		res, err := uom.NewGraph(r.Catalog).ResolveToBase(ctx, item, in.Quantity, in.UnitID)
		if err != nil {
			return err
		}
		if !res.Quantity.IsPositive() {
			return domain.ErrInvalidQuantity
		}

		m := inventory.Movement{
			Kind:      kind,
			Date:      in.Date,
			Quantity:  res.Quantity,
			Reference: in.Reference,
			MachineID: in.MachineID,
			CreatedBy: in.UserID,
		}
		if kind == entity.EntryKindReceipt {
			// costo por unidad ingresada -> costo por unidad base (mismo total)
			m.UnitCost = in.UnitCost.Mul(in.Quantity).Div(res.Quantity)
		}
		posting, err = uc.PostInTx(ctx, r, item.ID, m)
		return err
	})
	if err != nil {
		uc.logRejected(kind, in, err)
		return nil, err
	}
	return &dto.PostingResponse{Entry: toEntryDTO(posting.Entry), Restated: len(posting.Restated)}, nil
}

// PostInTx aplica un movimiento al kardex del item usando los repositorios de la transacción
// del caller (compras lo usa para las líneas de consumibles). Bloquea el item, arma la ventana
// del kardex a partir de la fecha del movimiento, persiste la fila nueva, reescribe los saldos
// de las filas posteriores y actualiza el saldo materializado.
func (uc *KardexUseCase) PostInTx(ctx context.Context, r ports.Repos, itemID string, m inventory.Movement) (*inventory.Posting, error) {
	item, err := r.Items.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.IsConsumable() {
		return nil, fmt.Errorf("%w: el item %s no se controla por kardex", domain.ErrInvalidInput, item.Code)
	}

	bal, err := r.Kardex.GetBalance(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	var k *inventory.Kardex
	backdated := bal != nil && m.Date.Before(bal.LastDate)
	if backdated {
		prev, err := r.Kardex.LastAtOrBefore(ctx, item.ID, m.Date)
		if err != nil {
			return nil, err
		}
		tail, err := r.Kardex.ListAfter(ctx, item.ID, m.Date)
		if err != nil {
			return nil, err
		}
		k = inventory.NewKardex(item.ID, inventory.BalanceOf(prev), tail)
	} else {
		opening := inventory.Balance{}
		if bal != nil {
			opening = inventory.Balance{Quantity: bal.Quantity, Cost: bal.Cost, LastDate: bal.LastDate}
		}
		k = inventory.NewKardex(item.ID, opening, nil)
	}

	posting, err := k.Post(m)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	posting.Entry.ID = uuid.New().String()
	posting.Entry.CreatedAt = now
	if err := r.Kardex.Append(ctx, posting.Entry); err != nil {
		return nil, err
	}
	if len(posting.Restated) > 0 {
		if err := r.Kardex.RestateBalances(ctx, posting.Restated); err != nil {
			return nil, err
		}
	}
	final := k.Balance()
	if err := r.Kardex.SaveBalance(ctx, &entity.KardexBalance{
		ItemID:    item.ID,
		Quantity:  final.Quantity,
		Cost:      final.Cost,
		LastDate:  final.LastDate,
		UpdatedAt: now,
	}); err != nil {
		return nil, err
	}

	uc.metrics.ObservePosting(string(m.Kind), backdated)
	if uc.log != nil {
		uc.log.Info().
			Str("item_id", item.ID).
			Str("kind", string(m.Kind)).
			Str("quantity", m.Quantity.String()).
			Str("balance", final.Quantity.String()).
			Int("restated", len(posting.Restated)).
			Msg("kardex: movimiento registrado")
	}
	return posting, nil
}

// Balance devuelve el saldo actual del kardex: cantidad en unidad base y costo promedio.
func (uc *KardexUseCase) Balance(ctx context.Context, itemID string) (*dto.BalanceDTO, error) {
	item, err := uc.consumable(ctx, itemID)
	if err != nil {
		return nil, err
	}
	bal, err := uc.kardex.GetBalance(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := &dto.BalanceDTO{ItemID: itemID, BaseUnitID: uc.baseUnit(ctx, item).ID, Quantity: decimal.Zero, TotalCost: decimal.Zero, AvgUnitCost: decimal.Zero}
	if bal != nil {
		out.Quantity = bal.Quantity
		out.TotalCost = bal.Cost
		out.AvgUnitCost = bal.AvgUnitCost()
		if !bal.LastDate.IsZero() {
			d := bal.LastDate
			out.LastDate = &d
		}
	}
	return out, nil
}

// Entries lista las filas del kardex del item, opcionalmente acotadas por fecha.
func (uc *KardexUseCase) Entries(ctx context.Context, itemID string, from, to *time.Time) ([]dto.KardexEntryDTO, error) {
	if _, err := uc.consumable(ctx, itemID); err != nil {
		return nil, err
	}
	entries, err := uc.kardex.ListByItem(ctx, itemID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KardexEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out, nil
}

// ExportPDF genera el reporte del kardex del item. Devuelve los bytes y el nombre del archivo.
func (uc *KardexUseCase) ExportPDF(ctx context.Context, itemID string, from, to *time.Time) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("kardex pdf: generador no configurado")
	}
	item, err := uc.consumable(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	entries, err := uc.kardex.ListByItem(ctx, itemID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("kardex pdf: listar filas: %w", err)
	}
	bal, err := uc.kardex.GetBalance(ctx, itemID)
	if err != nil {
		return nil, "", fmt.Errorf("kardex pdf: saldo: %w", err)
	}
	base := uc.baseUnit(ctx, item)
	report := &ports.KardexReport{
		Item:        item,
		BaseUnitID:  base.ID,
		BaseSymbol:  base.Symbol,
		From:        from,
		To:          to,
		Entries:     entries,
		Balance:     bal,
		GeneratedAt: uc.now(),
	}
	b, err := uc.pdf.GenerateKardexPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("kardex pdf: generar: %w", err)
	}
	return b, fmt.Sprintf("kardex-%s.pdf", item.Code), nil
}

func (uc *KardexUseCase) consumable(ctx context.Context, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.IsConsumable() {
		return nil, fmt.Errorf("%w: el item %s no se controla por kardex", domain.ErrInvalidInput, item.Code)
	}
	return item, nil
}

// baseUnit devuelve la unidad base de la dimensión del item; si no se puede leer, solo el ID por defecto.
func (uc *KardexUseCase) baseUnit(ctx context.Context, item *entity.Item) entity.UnitOfMeasure {
	fallback := entity.UnitOfMeasure{ID: item.DefaultUnitID}
	if uc.catalog == nil {
		return fallback
	}
	base, err := uc.catalog.GetBaseUnit(ctx, item.DimensionID)
	if err != nil || base == nil {
		return fallback
	}
	return *base
}

func (uc *KardexUseCase) logRejected(kind entity.EntryKind, in MovementInput, err error) {
	if uc.log == nil {
		return
	}
	uc.log.Warn().
		Err(err).
		Str("item_id", in.ItemID).
		Str("kind", string(kind)).
		Str("quantity", in.Quantity.String()).
		Msg("kardex: movimiento rechazado")
}

func toEntryDTO(e *entity.KardexEntry) dto.KardexEntryDTO {
	return dto.KardexEntryDTO{
		ID:              e.ID,
		Seq:             e.Seq,
		Date:            e.Date,
		Kind:            string(e.Kind),
		QuantityIn:      e.QuantityIn,
		QuantityOut:     e.QuantityOut,
		UnitCost:        e.UnitCost,
		OpeningQuantity: e.OpeningQuantity,
		BalanceQuantity: e.BalanceQuantity,
		BalanceCost:     e.BalanceCost,
		AvgUnitCost:     e.AvgUnitCost,
		Reference:       e.Reference,
		MachineID:       e.MachineID,
		PurchaseLineID:  e.PurchaseLineID,
	}
}
