// Package pdf genera la hoja de producción imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + cantidad  │  N° Producción + Estado      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Operador / Origen / Fecha de producción             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA INGREDIENTES: Cant | Nombre | C.Unit | Costo         │
//	│  TABLA RECETAS:      Cant | Nombre | C.Unit | Costo         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL (solo si la vista incluye costos) + QR con el ID     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.SheetRenderer = (*SheetGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// SheetGenerator implementa ports.SheetRenderer usando Maroto v2.
type SheetGenerator struct {
	company string
	printer *message.Printer
}

// NewSheetGenerator construye el generador. company aparece como autor del documento.
func NewSheetGenerator(company string) *SheetGenerator {
	return &SheetGenerator{company: company, printer: message.NewPrinter(language.Spanish)}
}

// ProductionSheet genera el PDF de la producción ya proyectada según el rol.
// Si la vista no trae costos, las columnas de costo no se imprimen.
func (g *SheetGenerator) ProductionSheet(_ context.Context, p dto.ProductionResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de producción "+p.ID, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	showCosts := p.CostoTotal != nil

	m.AddRows(g.headerRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(g.linesSection("INGREDIENTES", p.Ingredientes, showCosts)...)
	m.AddRows(g.linesSection("RECETAS", p.Recetas, showCosts)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.footerRow(p))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *SheetGenerator) headerRow(p dto.ProductionResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(p.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Cantidad: %s %s", g.quantity(p.Cantidad), p.Unidad), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(p.ID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Estado: "+p.Estado, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func detailsRow(p dto.ProductionResponse) core.Row {
	fecha := "pendiente"
	if p.FechaProduccion != nil {
		fecha = p.FechaProduccion.Format("02/01/2006 15:04")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Operador: %s   |   Origen: %s   |   Fecha: %s",
				nonEmpty(p.Operador, "-"), p.Origen, fecha,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// linesSection: título y una fila por insumo. Sin líneas no imprime nada.
func (g *SheetGenerator) linesSection(title string, lines []dto.ProductionLineResponse, showCosts bool) []core.Row {
	if len(lines) == 0 {
		return nil
	}
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}))),
		tableHeaderRow(showCosts),
	}
	for _, l := range lines {
		cells := []core.Col{
			col.New(2).Add(text.New(g.quantity(l.Cantidad), props.Text{Size: 8, Align: align.Center, Top: 1})),
		}
		if showCosts {
			cells = append(cells,
				col.New(6).Add(text.New(l.Nombre, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(2).Add(text.New(g.money(l.CostoUnitario), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
				col.New(2).Add(text.New(g.money(l.Costo), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			)
		} else {
			cells = append(cells, col.New(10).Add(text.New(l.Nombre, props.Text{Size: 8, Top: 1, Left: 1})))
		}
		rows = append(rows, row.New(6).Add(cells...))
	}
	return rows
}

func tableHeaderRow(showCosts bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	if !showCosts {
		return row.New(6).Add(h("Cant.", 2, align.Center), h("Insumo", 10, align.Left))
	}
	return row.New(6).Add(
		h("Cant.", 2, align.Center),
		h("Insumo", 6, align.Left),
		h("Costo Unit.", 2, align.Right),
		h("Costo", 2, align.Right),
	)
}

// footerRow: costo total (si aplica) y QR con el ID para ubicar la producción desde planta.
func (g *SheetGenerator) footerRow(p dto.ProductionResponse) core.Row {
	info := []core.Component{
		text.New(nonEmpty(p.Observaciones, "Sin observaciones."), props.Text{Size: 8, Top: 2, Left: 3, Color: colorGray}),
	}
	if p.CostoTotal != nil {
		info = append(info, text.New("COSTO TOTAL: "+g.money(p.CostoTotal), props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 14, Left: 3, Color: colorPrimary,
		}))
	}
	return row.New(40).Add(
		col.New(8).Add(info...),
		col.New(4).Add(code.NewQr(p.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *SheetGenerator) quantity(d decimal.Decimal) string {
	f, _ := d.Float64()
	return g.printer.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(4)))
}

func (g *SheetGenerator) money(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	f, _ := d.Float64()
	return "$" + g.printer.Sprintf("%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
