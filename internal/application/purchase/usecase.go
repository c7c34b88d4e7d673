// Package purchase registra compras: normaliza el lote completo y, dentro de una sola
// transacción, persiste cabecera y líneas, crea las unidades de repuestos y registra las
// entradas de consumibles en el kardex.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/application/dto"
	appinventory "github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/application/ports"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/domain/purchase"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
	"github.com/jhoicas/Maquinaria-api/internal/domain/uom"
	"github.com/jhoicas/Maquinaria-api/pkg/logger"
	"github.com/jhoicas/Maquinaria-api/pkg/metrics"
)

// Config parámetros de negocio de las compras.
type Config struct {
	TaxFactor            decimal.Decimal // IGV; no positivo = purchase.DefaultTaxFactor
	DefaultCurrency      string          // moneda si la cabecera no la indica
	ReceivingWarehouseID string          // almacén de recepción por defecto; vacío = unidades sin ubicación
}

// RegisterPurchaseUseCase registra un comprobante de compra de forma atómica.
type RegisterPurchaseUseCase struct {
	txRunner     ports.TxRunner
	purchaseRepo repository.PurchaseRepository
	kardex       *appinventory.KardexUseCase
	units        *appinventory.UnitUseCase
	normalizer   *purchase.Normalizer
	cfg          Config
	log          *logger.Logger
	metrics      *metrics.Metrics
}

// NewRegisterPurchaseUseCase construye el caso de uso. log y m pueden ser nil.
func NewRegisterPurchaseUseCase(
	txRunner ports.TxRunner,
	purchaseRepo repository.PurchaseRepository,
	kardex *appinventory.KardexUseCase,
	units *appinventory.UnitUseCase,
	cfg Config,
	log *logger.Logger,
	m *metrics.Metrics,
) *RegisterPurchaseUseCase {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = entity.CurrencyPEN
	}
	return &RegisterPurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		kardex:       kardex,
		units:        units,
		normalizer:   purchase.NewNormalizer(cfg.TaxFactor),
		cfg:          cfg,
		log:          log,
		metrics:      m,
	}
}

// Register normaliza y persiste la compra. Las lecturas de catálogo y todas las escrituras
// ocurren en la misma transacción: si cualquier línea falla no queda nada registrado y se
// devuelve *domain.BatchError con el detalle por línea.
func (uc *RegisterPurchaseUseCase) Register(ctx context.Context, userID string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	header := &entity.PurchaseHeader{
		ID:           uuid.New().String(),
		Date:         in.Date,
		SupplierID:   in.SupplierID,
		DocumentType: strings.ToUpper(in.DocumentType),
		DocumentCode: strings.TrimSpace(in.DocumentCode),
		Currency:     strings.ToUpper(in.Currency),
		ExchangeRate: in.ExchangeRate,
		WarehouseID:  in.WarehouseID,
		CreatedAt:    time.Now(),
		CreatedBy:    userID,
	}
	if header.Currency == "" {
		header.Currency = uc.cfg.DefaultCurrency
	}
	if header.WarehouseID == "" {
		header.WarehouseID = uc.cfg.ReceivingWarehouseID
	}
	if header.Date.IsZero() || header.SupplierID == "" || header.DocumentCode == "" {
		return nil, domain.ErrInvalidInput
	}
	switch header.Currency {
	case entity.CurrencyPEN, entity.CurrencyUSD, entity.CurrencyEUR:
	default:
		return nil, fmt.Errorf("%w: moneda %s no admitida", domain.ErrInvalidInput, header.Currency)
	}
	if header.DocumentType != entity.DocumentTypeFactura && header.DocumentType != entity.DocumentTypeBoleta {
		return nil, fmt.Errorf("%w: tipo de comprobante %s no admitido", domain.ErrInvalidInput, header.DocumentType)
	}

	lines := make([]entity.PurchaseLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, entity.PurchaseLineInput{
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			UnitID:   l.UnitID,
			Kind:     entity.AmountKind(strings.ToUpper(l.AmountKind)),
			Amount:   l.Amount,
			Currency: strings.ToUpper(l.Currency),
		})
	}

	var out *dto.PurchaseResponse
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		processor := purchase.NewProcessor(r.Items, uom.NewGraph(r.Catalog), uc.normalizer)
		batch, err := processor.Process(ctx, header, lines)
		if err != nil {
			return err
		}
		out, err = uc.persist(ctx, r, batch)
		return err
	})
	if err != nil {
		uc.metrics.ObservePurchase(false)
		uc.logRejected(header, err)
		return nil, err
	}

	uc.metrics.ObservePurchase(true)
	if uc.log != nil {
		uc.log.Info().
			Str("purchase_id", header.ID).
			Str("invoice", header.Reference()).
			Str("supplier_id", header.SupplierID).
			Int("lines", len(out.Lines)).
			Str("total_cost", out.TotalCost.String()).
			Msg("compra registrada")
	}
	return out, nil
}

func (uc *RegisterPurchaseUseCase) persist(ctx context.Context, r ports.Repos, batch *purchase.Batch) (*dto.PurchaseResponse, error) {
	h := batch.Header
	if err := r.Purchases.CreateHeader(ctx, h); err != nil {
		return nil, err
	}

	out := &dto.PurchaseResponse{
		ID:           h.ID,
		Date:         h.Date,
		SupplierID:   h.SupplierID,
		DocumentType: h.DocumentType,
		DocumentCode: h.DocumentCode,
		Currency:     h.Currency,
		TaxFactor:    uc.normalizer.TaxFactor(),
		TotalValue:   decimal.Zero,
		TotalCost:    decimal.Zero,
		Lines:        make([]dto.PurchaseLineResponse, 0, len(batch.Lines)),
	}

	for _, line := range batch.Lines {
		line.ID = uuid.New().String()
		line.PurchaseID = h.ID
		if err := r.Purchases.CreateLine(ctx, line); err != nil {
			return nil, fmt.Errorf("línea %d: %w", line.LineIndex, err)
		}
		resp := toLineResponse(line)

		switch line.ItemKind {
		case entity.ItemKindRepuesto:
			units, err := uc.createUnits(ctx, r, h, line, batch.Items[line.ItemID])
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line.LineIndex, err)
			}
			for _, u := range units {
				resp.UnitIDs = append(resp.UnitIDs, u.ID)
				resp.Serials = append(resp.Serials, u.Serial)
			}
		case entity.ItemKindConsumible:
			posting, err := uc.kardex.PostInTx(ctx, r, line.ItemID, inventory.Movement{
				Kind:           entity.EntryKindReceipt,
				Date:           h.Date,
				Quantity:       line.BaseQuantity,
				UnitCost:       line.BaseUnitCost,
				Reference:      h.Reference(),
				PurchaseLineID: line.ID,
				CreatedBy:      h.CreatedBy,
			})
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line.LineIndex, err)
			}
			resp.KardexEntryID = posting.Entry.ID
		}

		uc.metrics.ObservePurchaseLine(string(line.ItemKind))
		out.TotalValue = out.TotalValue.Add(line.TotalValue)
		out.TotalCost = out.TotalCost.Add(line.TotalCost)
		out.Lines = append(out.Lines, resp)
	}
	return out, nil
}

// createUnits crea una ItemUnit por pieza con serie correlativa del item. Si la compra tiene
// almacén de recepción, cada unidad entra a ese almacén en la fecha de la compra.
func (uc *RegisterPurchaseUseCase) createUnits(
	ctx context.Context,
	r ports.Repos,
	h *entity.PurchaseHeader,
	line *entity.NormalizedPurchaseLine,
	item *entity.Item,
) ([]*entity.ItemUnit, error) {
	n := purchase.UnitCount(line)
	if n <= 0 {
		return nil, nil
	}
	first, err := r.Items.ReserveSerials(ctx, item.ID, n)
	if err != nil {
		return nil, err
	}

	units := make([]*entity.ItemUnit, 0, n)
	for i := 0; i < n; i++ {
		u := &entity.ItemUnit{
			ID:              uuid.New().String(),
			ItemID:          item.ID,
			Serial:          inventory.SerialFor(item.Code, first+i),
			State:           entity.UnitStateNuevo,
			PurchaseLineID:  line.ID,
			AcquisitionCost: line.BaseUnitCost,
			CreatedAt:       h.CreatedAt,
		}
		if err := r.Units.Create(ctx, u); err != nil {
			return nil, err
		}
		if h.WarehouseID != "" {
			if _, err := uc.units.TransitionInTx(ctx, r, u, entity.UnitStateNuevo, entity.AtWarehouse(h.WarehouseID), h.Date); err != nil {
				return nil, err
			}
		}
		units = append(units, u)
	}
	return units, nil
}

// SupplierPrices resume el valor unitario promedio pagado por el item a cada proveedor.
func (uc *RegisterPurchaseUseCase) SupplierPrices(ctx context.Context, itemID string) ([]dto.SupplierPriceDTO, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	prices, err := uc.purchaseRepo.SupplierPrices(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierPriceDTO, 0, len(prices))
	for _, p := range prices {
		out = append(out, dto.SupplierPriceDTO{
			SupplierID:   p.SupplierID,
			SupplierName: p.SupplierName,
			Currency:     p.Currency,
			AvgUnitValue: p.AvgUnitValue,
			Purchases:    p.Purchases,
		})
	}
	return out, nil
}

func (uc *RegisterPurchaseUseCase) logRejected(h *entity.PurchaseHeader, err error) {
	if uc.log == nil {
		return
	}
	var batchErr *domain.BatchError
	if errors.As(err, &batchErr) {
		for _, le := range batchErr.Lines {
			uc.log.Warn().
				Err(le.Err).
				Str("invoice", h.Reference()).
				Int("line_index", le.Index).
				Str("item_id", le.ItemID).
				Msg("compra rechazada: error de línea")
		}
		return
	}
	uc.log.Error().Err(err).Str("invoice", h.Reference()).Msg("compra rechazada")
}

func toLineResponse(l *entity.NormalizedPurchaseLine) dto.PurchaseLineResponse {
	return dto.PurchaseLineResponse{
		ID:              l.ID,
		LineIndex:       l.LineIndex,
		ItemID:          l.ItemID,
		ItemKind:        string(l.ItemKind),
		EnteredQuantity: l.EnteredQuantity,
		EnteredUnitID:   l.EnteredUnitID,
		BaseQuantity:    l.BaseQuantity,
		BaseUnitID:      l.BaseUnitID,
		Currency:        l.Currency,
		UnitValue:       l.UnitValue,
		UnitCost:        l.UnitCost,
		TotalValue:      l.TotalValue,
		TotalCost:       l.TotalCost,
		BaseUnitCost:    l.BaseUnitCost,
	}
}
