// Package pdf genera el reporte del kardex valorizado de un consumible.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│  HEADER: Código + descripción del insumo │ KARDEX VALORIZADO + periodo │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Referencia | Entrada | Salida | C.Unit | Saldo | ...   │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  SALDO FINAL: cantidad / costo total / costo promedio                 │
//	└──────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Maquinaria-api/internal/application/ports"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 230, Green: 236, Blue: 243}
)

var _ ports.KardexPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.KardexPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
}

// NewMarotoPDFGenerator construye el generador. company se imprime como autor del documento.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company}
}

// GenerateKardexPDF genera el PDF del kardex y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateKardexPDF(_ context.Context, report *ports.KardexReport) ([]byte, error) {
	if report == nil || report.Item == nil {
		return nil, fmt.Errorf("pdf: reporte sin insumo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex "+report.Item.Code, true).
		WithAuthor(nonEmpty(g.company, "Maquinaria"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow(report.BaseSymbol))
	m.AddRows(tableEntryRows(report.Entries)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(balanceRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: insumo (izq) y título + periodo (der).
func headerRow(r *ports.KardexReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Item.Code+" · "+r.Item.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Unidad base: "+nonEmpty(r.BaseSymbol, "—"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX VALORIZADO · COSTO PROMEDIO", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(period(r), props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func period(r *ports.KardexReport) string {
	from, to := "inicio", "hoy"
	if r.From != nil {
		from = r.From.Format("02/01/2006")
	}
	if r.To != nil {
		to = r.To.Format("02/01/2006")
	}
	return "Periodo: " + from + " – " + to
}

// tableHeaderRow: cabecera de columnas del kardex.
func tableHeaderRow(symbol string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorHeader})
	}
	qty := "Cant."
	if symbol != "" {
		qty = "Cant. (" + symbol + ")"
	}
	return row.New(8).Add(
		h("Fecha", 1, align.Left),
		h("Referencia", 3, align.Left),
		h("Entrada "+qty, 1, align.Right),
		h("Salida "+qty, 1, align.Right),
		h("C. Unit.", 1, align.Right),
		h("Saldo ini.", 1, align.Right),
		h("Saldo", 1, align.Right),
		h("Costo total", 2, align.Right),
		h("C. Prom.", 1, align.Right),
	)
}

// tableEntryRows: una fila por movimiento, en el orden del kardex.
func tableEntryRows(entries []*entity.KardexEntry) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		in, out := "", ""
		if e.Kind == entity.EntryKindIssue {
			out = formatAmount(e.QuantityOut, 4)
		} else {
			in = formatAmount(e.QuantityIn, 4)
		}
		rows = append(rows, row.New(6).Add(
			cell(e.Date.Format("02/01/2006"), 1, align.Left),
			cell(reference(e), 3, align.Left),
			cell(in, 1, align.Right),
			cell(out, 1, align.Right),
			cell(formatAmount(e.UnitCost, 4), 1, align.Right),
			cell(formatAmount(e.OpeningQuantity, 4), 1, align.Right),
			cell(formatAmount(e.BalanceQuantity, 4), 1, align.Right),
			cell(formatAmount(e.BalanceCost, 2), 2, align.Right),
			cell(formatAmount(e.AvgUnitCost, 4), 1, align.Right),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el periodo.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	return rows
}

func reference(e *entity.KardexEntry) string {
	ref := nonEmpty(e.Reference, "—")
	if e.MachineID != "" {
		ref += " (maq. " + shortID(e.MachineID) + ")"
	}
	return ref
}

// balanceRow: saldo vigente del item (no solo del periodo).
func balanceRow(r *ports.KardexReport) core.Row {
	qty, cost, avg := decimal.Zero, decimal.Zero, decimal.Zero
	if r.Balance != nil {
		qty, cost, avg = r.Balance.Quantity, r.Balance.Cost, r.Balance.AvgUnitCost()
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1})
	}
	return row.New(10).Add(
		col.New(6),
		col.New(2).Add(label("SALDO ACTUAL:")),
		col.New(1).Add(value(formatAmount(qty, 4))),
		col.New(2).Add(value(formatAmount(cost, 2))),
		col.New(1).Add(value(formatAmount(avg, 4))),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatAmount redondea a places decimales e inserta comas de miles.
// Ej: 1234567.891 (2) → "1,234,567.89"
func formatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
