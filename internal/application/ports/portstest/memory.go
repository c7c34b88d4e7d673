// Package portstest ofrece una implementación en memoria de los puertos de persistencia y
// del TxRunner para las pruebas de casos de uso. Run trabaja sobre una copia del estado y
// solo la publica si fn no retorna error, igual que Commit/Rollback.
package portstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/application/ports"
	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

type state struct {
	items      map[string]entity.Item
	dimensions map[string]entity.Dimension
	units      map[string]entity.UnitOfMeasure
	relations  map[[2]string]entity.UnitRelation
	machines   map[string]entity.Machine
	warehouses map[string]entity.Warehouse
	suppliers  map[string]string
	headers    map[string]entity.PurchaseHeader
	lines      []entity.NormalizedPurchaseLine
	kardex     []entity.KardexEntry
	balances   map[string]entity.KardexBalance
	seq        int64
	itemUnits  map[string]entity.ItemUnit
	intervals  []entity.LocationInterval
}

func newState() *state {
	return &state{
		items:      map[string]entity.Item{},
		dimensions: map[string]entity.Dimension{},
		units:      map[string]entity.UnitOfMeasure{},
		relations:  map[[2]string]entity.UnitRelation{},
		machines:   map[string]entity.Machine{},
		warehouses: map[string]entity.Warehouse{},
		suppliers:  map[string]string{},
		headers:    map[string]entity.PurchaseHeader{},
		balances:   map[string]entity.KardexBalance{},
		itemUnits:  map[string]entity.ItemUnit{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.dimensions {
		c.dimensions[k] = v
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.relations {
		c.relations[k] = v
	}
	for k, v := range s.machines {
		c.machines[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.headers {
		c.headers[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.itemUnits {
		c.itemUnits[k] = v
	}
	c.lines = append(c.lines, s.lines...)
	c.kardex = append(c.kardex, s.kardex...)
	c.intervals = append(c.intervals, s.intervals...)
	c.seq = s.seq
	return c
}

// Store es la base de datos en memoria. Las transacciones se serializan con un mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store { return &Store{st: newState()} }

// Run implementa ports.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txState := s.st.clone()
	tx := &repos{get: func() *state { return txState }}
	if err := fn(tx.bundle()); err != nil {
		return err
	}
	s.st = txState
	return nil
}

// Repos devuelve repositorios fuera de transacción, siempre sobre el último estado confirmado.
// No deben usarse desde dentro de fn en Run.
func (s *Store) Repos() ports.Repos {
	return (&repos{get: func() *state { return s.st }}).bundle()
}

// Seed de datos de prueba.

func (s *Store) AddItem(i entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.items[i.ID] = i
}

func (s *Store) AddDimension(d entity.Dimension) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.dimensions[d.ID] = d
}

func (s *Store) AddUnit(u entity.UnitOfMeasure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.units[u.ID] = u
}

func (s *Store) AddRelation(r entity.UnitRelation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.relations[[2]string{r.BaseUnitID, r.RelatedUnitID}] = r
}

func (s *Store) AddMachine(m entity.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.machines[m.ID] = m
}

func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.warehouses[w.ID] = w
}

func (s *Store) AddItemUnit(u entity.ItemUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.itemUnits[u.ID] = u
}

func (s *Store) AddSupplier(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.suppliers[id] = name
}

// Inspección del estado confirmado.

func (s *Store) Item(id string) entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.items[id]
}

func (s *Store) PurchaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.headers)
}

func (s *Store) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.lines)
}

func (s *Store) KardexEntries(itemID string) []entity.KardexEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.KardexEntry
	for _, e := range sortedKardex(s.st.kardex) {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) ItemUnits(itemID string) []entity.ItemUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.ItemUnit
	for _, u := range s.st.itemUnits {
		if u.ItemID == itemID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

func (s *Store) Intervals(unitID string) []entity.LocationInterval {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.LocationInterval
	for _, iv := range s.st.intervals {
		if iv.ItemUnitID == unitID {
			out = append(out, iv)
		}
	}
	return out
}

func sortedKardex(entries []entity.KardexEntry) []entity.KardexEntry {
	out := append([]entity.KardexEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// Machines devuelve el repositorio de maquinarias fuera de transacción.
func (s *Store) Machines() *MachineRepo { return &MachineRepo{s: s} }

// MachineRepo implementa repository.MachineRegistry.
type MachineRepo struct{ s *Store }

func (m *MachineRepo) Create(_ context.Context, mc *entity.Machine) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, other := range m.s.st.machines {
		if other.Code == mc.Code {
			return domain.ErrDuplicate
		}
	}
	m.s.st.machines[mc.ID] = *mc
	return nil
}

func (m *MachineRepo) GetByID(_ context.Context, id string) (*entity.Machine, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mc, ok := m.s.st.machines[id]
	if !ok {
		return nil, nil
	}
	return &mc, nil
}

// Warehouses devuelve el repositorio de almacenes fuera de transacción.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }

// WarehouseRepo implementa repository.WarehouseRepository.
type WarehouseRepo struct{ s *Store }

func (w *WarehouseRepo) Create(_ context.Context, wh *entity.Warehouse) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	if _, ok := w.s.st.warehouses[wh.ID]; ok {
		return domain.ErrDuplicate
	}
	w.s.st.warehouses[wh.ID] = *wh
	return nil
}

func (w *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	wh, ok := w.s.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (w *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	all := make([]entity.Warehouse, 0, len(w.s.st.warehouses))
	for _, wh := range w.s.st.warehouses {
		all = append(all, wh)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	var out []*entity.Warehouse
	for i := offset; i < len(all) && len(out) < limit; i++ {
		out = append(out, &all[i])
	}
	return out, nil
}

// Items devuelve el registro de insumos fuera de transacción.
func (s *Store) Items() *ItemRegistry { return &ItemRegistry{s: s} }

// ItemRegistry implementa repository.ItemRegistry.
type ItemRegistry struct{ s *Store }

func (r *ItemRegistry) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.items {
		if other.Code == it.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.st.items[it.ID] = *it
	return nil
}

func (r *ItemRegistry) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.st.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// repos opera sobre la copia de la transacción o sobre el estado confirmado.
type repos struct{ get func() *state }

func (r *repos) bundle() ports.Repos {
	return ports.Repos{
		Items:     itemRepo{r},
		Catalog:   catalogRepo{r},
		Purchases: purchaseRepo{r},
		Kardex:    kardexRepo{r},
		Units:     unitRepo{r},
		Intervals: intervalRepo{r},
	}
}

// ── Items ─────────────────────────────────────────────────────────────────────

type itemRepo struct{ r *repos }

func (x itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	i, ok := x.r.get().items[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (x itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return x.GetByID(ctx, id)
}

func (x itemRepo) ReserveSerials(_ context.Context, itemID string, n int) (int, error) {
	i, ok := x.r.get().items[itemID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	first := i.LastSerial + 1
	i.LastSerial += n
	x.r.get().items[itemID] = i
	return first, nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

type catalogRepo struct{ r *repos }

func (x catalogRepo) GetDimension(_ context.Context, id string) (*entity.Dimension, error) {
	d, ok := x.r.get().dimensions[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (x catalogRepo) GetUnit(_ context.Context, id string) (*entity.UnitOfMeasure, error) {
	u, ok := x.r.get().units[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (x catalogRepo) GetBaseUnit(_ context.Context, dimensionID string) (*entity.UnitOfMeasure, error) {
	for _, u := range x.r.get().units {
		if u.DimensionID == dimensionID && u.IsBase {
			return &u, nil
		}
	}
	return nil, nil
}

func (x catalogRepo) GetUnitRelation(_ context.Context, baseID, relatedID string) (*entity.UnitRelation, error) {
	rel, ok := x.r.get().relations[[2]string{baseID, relatedID}]
	if !ok {
		return nil, nil
	}
	return &rel, nil
}

func (x catalogRepo) CreateDimension(_ context.Context, d *entity.Dimension) error {
	for _, e := range x.r.get().dimensions {
		if e.Code == d.Code {
			return domain.ErrDuplicate
		}
	}
	x.r.get().dimensions[d.ID] = *d
	return nil
}

func (x catalogRepo) CreateUnit(_ context.Context, u *entity.UnitOfMeasure) error {
	for _, e := range x.r.get().units {
		if e.DimensionID == u.DimensionID && e.Symbol == u.Symbol {
			return domain.ErrDuplicate
		}
	}
	x.r.get().units[u.ID] = *u
	return nil
}

func (x catalogRepo) CreateUnitRelation(_ context.Context, rel *entity.UnitRelation) error {
	key := [2]string{rel.BaseUnitID, rel.RelatedUnitID}
	if _, ok := x.r.get().relations[key]; ok {
		return domain.ErrDuplicate
	}
	x.r.get().relations[key] = *rel
	return nil
}

func (x catalogRepo) ListUnits(_ context.Context, dimensionID string) ([]*entity.UnitOfMeasure, error) {
	var out []*entity.UnitOfMeasure
	for _, u := range x.r.get().units {
		if u.DimensionID == dimensionID {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// ── Compras ───────────────────────────────────────────────────────────────────

type purchaseRepo struct{ r *repos }

func (x purchaseRepo) CreateHeader(_ context.Context, h *entity.PurchaseHeader) error {
	for _, e := range x.r.get().headers {
		if e.DocumentType == h.DocumentType && e.DocumentCode == h.DocumentCode {
			return domain.ErrDuplicate
		}
	}
	x.r.get().headers[h.ID] = *h
	return nil
}

func (x purchaseRepo) CreateLine(_ context.Context, l *entity.NormalizedPurchaseLine) error {
	x.r.get().lines = append(x.r.get().lines, *l)
	return nil
}

func (x purchaseRepo) ListLines(_ context.Context, purchaseID string) ([]*entity.NormalizedPurchaseLine, error) {
	var out []*entity.NormalizedPurchaseLine
	for _, l := range x.r.get().lines {
		if l.PurchaseID == purchaseID {
			out = append(out, &l)
		}
	}
	return out, nil
}

func (x purchaseRepo) SupplierPrices(_ context.Context, itemID string) ([]*entity.SupplierPrice, error) {
	type key struct{ supplier, currency string }
	sums := map[key]decimal.Decimal{}
	counts := map[key]int{}
	var order []key
	for _, l := range x.r.get().lines {
		if l.ItemID != itemID {
			continue
		}
		h := x.r.get().headers[l.PurchaseID]
		k := key{h.SupplierID, l.Currency}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
			sums[k] = decimal.Zero
		}
		sums[k] = sums[k].Add(l.UnitValue)
		counts[k]++
	}
	out := make([]*entity.SupplierPrice, 0, len(order))
	for _, k := range order {
		out = append(out, &entity.SupplierPrice{
			SupplierID:   k.supplier,
			SupplierName: x.r.get().suppliers[k.supplier],
			Currency:     k.currency,
			AvgUnitValue: sums[k].Div(decimal.NewFromInt(int64(counts[k]))),
			Purchases:    counts[k],
		})
	}
	return out, nil
}

// ── Kardex ────────────────────────────────────────────────────────────────────

type kardexRepo struct{ r *repos }

func (x kardexRepo) Append(_ context.Context, e *entity.KardexEntry) error {
	x.r.get().seq++
	e.Seq = x.r.get().seq
	x.r.get().kardex = append(x.r.get().kardex, *e)
	return nil
}

func (x kardexRepo) GetBalance(_ context.Context, itemID string) (*entity.KardexBalance, error) {
	b, ok := x.r.get().balances[itemID]
	if !ok {
		return &entity.KardexBalance{ItemID: itemID, Quantity: decimal.Zero, Cost: decimal.Zero}, nil
	}
	return &b, nil
}

func (x kardexRepo) SaveBalance(_ context.Context, b *entity.KardexBalance) error {
	x.r.get().balances[b.ItemID] = *b
	return nil
}

func (x kardexRepo) LastAtOrBefore(_ context.Context, itemID string, date time.Time) (*entity.KardexEntry, error) {
	var last *entity.KardexEntry
	for _, e := range sortedKardex(x.r.get().kardex) {
		if e.ItemID == itemID && !e.Date.After(date) {
			last = &e
		}
	}
	return last, nil
}

func (x kardexRepo) ListAfter(_ context.Context, itemID string, date time.Time) ([]*entity.KardexEntry, error) {
	var out []*entity.KardexEntry
	for _, e := range sortedKardex(x.r.get().kardex) {
		if e.ItemID == itemID && e.Date.After(date) {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (x kardexRepo) RestateBalances(_ context.Context, entries []*entity.KardexEntry) error {
	for _, e := range entries {
		for i := range x.r.get().kardex {
			if x.r.get().kardex[i].ID == e.ID {
				k := &x.r.get().kardex[i]
				k.UnitCost = e.UnitCost
				k.OpeningQuantity = e.OpeningQuantity
				k.BalanceQuantity = e.BalanceQuantity
				k.BalanceCost = e.BalanceCost
				k.AvgUnitCost = e.AvgUnitCost
			}
		}
	}
	return nil
}

func (x kardexRepo) ListByItem(_ context.Context, itemID string, from, to *time.Time) ([]*entity.KardexEntry, error) {
	var out []*entity.KardexEntry
	for _, e := range sortedKardex(x.r.get().kardex) {
		if e.ItemID != itemID {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

// ── Unidades ──────────────────────────────────────────────────────────────────

type unitRepo struct{ r *repos }

func (x unitRepo) Create(_ context.Context, u *entity.ItemUnit) error {
	for _, e := range x.r.get().itemUnits {
		if e.Serial == u.Serial {
			return domain.ErrDuplicate
		}
	}
	x.r.get().itemUnits[u.ID] = *u
	return nil
}

func (x unitRepo) GetByID(_ context.Context, id string) (*entity.ItemUnit, error) {
	u, ok := x.r.get().itemUnits[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (x unitRepo) GetForUpdate(ctx context.Context, id string) (*entity.ItemUnit, error) {
	return x.GetByID(ctx, id)
}

func (x unitRepo) Update(_ context.Context, u *entity.ItemUnit) error {
	if _, ok := x.r.get().itemUnits[u.ID]; !ok {
		return domain.ErrNotFound
	}
	x.r.get().itemUnits[u.ID] = *u
	return nil
}

func (x unitRepo) ListAtLocation(_ context.Context, loc entity.Location) ([]*entity.ItemUnit, error) {
	return x.filter(func(u entity.ItemUnit) bool { return u.Location == loc }), nil
}

func (x unitRepo) ListAssignable(_ context.Context, itemID string) ([]*entity.ItemUnit, error) {
	return x.filter(func(u entity.ItemUnit) bool {
		return u.ItemID == itemID && u.Location.Kind == entity.LocationWarehouse && u.State != entity.UnitStateInoperativo
	}), nil
}

func (x unitRepo) filter(keep func(entity.ItemUnit) bool) []*entity.ItemUnit {
	var out []*entity.ItemUnit
	for _, u := range x.r.get().itemUnits {
		if keep(u) {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

// ── Intervalos ────────────────────────────────────────────────────────────────

type intervalRepo struct{ r *repos }

func (x intervalRepo) Create(_ context.Context, iv *entity.LocationInterval) error {
	for _, e := range x.r.get().intervals {
		if e.ItemUnitID == iv.ItemUnitID && e.End == nil {
			return domain.ErrConflict
		}
	}
	x.r.get().intervals = append(x.r.get().intervals, *iv)
	return nil
}

func (x intervalRepo) Close(_ context.Context, iv *entity.LocationInterval) error {
	for i := range x.r.get().intervals {
		if x.r.get().intervals[i].ID == iv.ID {
			end := *iv.End
			x.r.get().intervals[i].End = &end
			return nil
		}
	}
	return domain.ErrNotFound
}

func (x intervalRepo) GetOpen(_ context.Context, unitID string) (*entity.LocationInterval, error) {
	for _, e := range x.r.get().intervals {
		if e.ItemUnitID == unitID && e.End == nil {
			return &e, nil
		}
	}
	return nil, nil
}

func (x intervalRepo) ListByUnit(_ context.Context, unitID string) ([]*entity.LocationInterval, error) {
	var out []*entity.LocationInterval
	for _, e := range x.r.get().intervals {
		if e.ItemUnitID == unitID {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
