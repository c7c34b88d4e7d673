package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// Movement es una entrada o salida a registrar en el kardex.
// UnitCost solo aplica a entradas; las salidas se valorizan al promedio.
type Movement struct {
	Kind           entity.EntryKind
	Date           time.Time
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	Reference      string
	MachineID      string
	PurchaseLineID string
	CreatedBy      string
}

// Posting es el resultado de registrar un movimiento: la fila nueva y las filas
// posteriores cuyos saldos se recalcularon (solo en movimientos con fecha pasada).
type Posting struct {
	Entry    *entity.KardexEntry
	Restated []*entity.KardexEntry
}

// Kardex es una ventana ordenada del kardex de un item: un saldo de apertura y las filas
// que le siguen. Con apertura cero y todas las filas es el kardex completo.
type Kardex struct {
	itemID  string
	opening Balance
	entries []*entity.KardexEntry
	balance Balance
}

// NewKardex arma la ventana. Las filas deben venir ordenadas por fecha y sus saldos
// deben ser consistentes con opening.
func NewKardex(itemID string, opening Balance, entries []*entity.KardexEntry) *Kardex {
	k := &Kardex{itemID: itemID, opening: opening, entries: entries, balance: opening}
	if n := len(entries); n > 0 {
		k.balance = BalanceOf(entries[n-1])
	}
	return k
}

// replay reconstruye el kardex completo desde saldo cero recalculando cada fila.
// Las filas recibidas no se modifican; se trabaja sobre copias.
func replay(itemID string, entries []*entity.KardexEntry) (*Kardex, error) {
	sorted := make([]*entity.KardexEntry, 0, len(entries))
	for _, e := range entries {
		c := *e
		sorted = append(sorted, &c)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	bal := Balance{}
	for _, e := range sorted {
		next, err := bal.apply(e)
		if err != nil {
			return nil, err
		}
		bal = next
	}
	return &Kardex{itemID: itemID, entries: sorted, balance: bal}, nil
}

// Receive registra una entrada de qty a unitCost.
func (k *Kardex) Receive(qty, unitCost decimal.Decimal, date time.Time) (*Posting, error) {
	return k.Post(Movement{Kind: entity.EntryKindReceipt, Date: date, Quantity: qty, UnitCost: unitCost})
}

// Issue registra una salida de qty al costo promedio vigente en date.
func (k *Kardex) Issue(qty decimal.Decimal, date time.Time) (*Posting, error) {
	return k.Post(Movement{Kind: entity.EntryKindIssue, Date: date, Quantity: qty})
}

// Post aplica un movimiento. Si su fecha es anterior a filas ya registradas se inserta
// después de las de igual fecha y se recalculan los saldos de las posteriores; si alguna
// salida posterior queda sin stock el movimiento se rechaza y el kardex no cambia.
func (k *Kardex) Post(m Movement) (*Posting, error) {
	if !m.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if m.Kind == entity.EntryKindReceipt && m.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	entry := &entity.KardexEntry{
		ItemID:         k.itemID,
		Date:           m.Date,
		Kind:           m.Kind,
		QuantityIn:     decimal.Zero,
		QuantityOut:    decimal.Zero,
		UnitCost:       m.UnitCost,
		Reference:      m.Reference,
		MachineID:      m.MachineID,
		PurchaseLineID: m.PurchaseLineID,
		CreatedBy:      m.CreatedBy,
	}
	switch m.Kind {
	case entity.EntryKindReceipt:
		entry.QuantityIn = m.Quantity
	case entity.EntryKindIssue:
		entry.QuantityOut = m.Quantity
	default:
		return nil, domain.ErrInvalidInput
	}

	pos := sort.Search(len(k.entries), func(i int) bool { return k.entries[i].Date.After(m.Date) })
	start := k.opening
	if pos > 0 {
		start = BalanceOf(k.entries[pos-1])
	}

	bal, err := start.apply(entry)
	if err != nil {
		return nil, err
	}

	tail := k.entries[pos:]
	restated := make([]*entity.KardexEntry, 0, len(tail))
	for _, old := range tail {
		e := *old
		next, err := bal.apply(&e)
		if err != nil {
			return nil, err
		}
		bal = next
		restated = append(restated, &e)
	}

	entries := make([]*entity.KardexEntry, 0, len(k.entries)+1)
	entries = append(entries, k.entries[:pos]...)
	entries = append(entries, entry)
	entries = append(entries, restated...)
	k.entries = entries
	k.balance = bal

	return &Posting{Entry: entry, Restated: restated}, nil
}

// Balance devuelve el saldo final.
func (k *Kardex) Balance() Balance { return k.balance }

// Entries devuelve las filas de la ventana en orden.
func (k *Kardex) Entries() []*entity.KardexEntry { return k.entries }
