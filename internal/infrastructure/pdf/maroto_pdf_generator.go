// Package pdf genera el reporte de stock bajo con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app     │  Fecha de generación        │
//	│  RESUMEN: materias primas / productos / en alerta           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Nombre | Categoría | Unidad | Stock | Umbral        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÚLTIMOS MOVIMIENTOS: Fecha | Ítem | Acción | Cant | Stock  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var actionLabels = map[entity.ActionType]string{
	entity.ActionIn:     "Entrada",
	entity.ActionOut:    "Salida",
	entity.ActionAdjust: "Ajuste",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.LowStockPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.LowStockPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateLowStockPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLowStockPDF(_ context.Context, rep *report.LowStockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock bajo", true).
		WithAuthor(rep.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(summaryRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("MATERIAS PRIMAS EN O BAJO SU UMBRAL"))
	if len(rep.LowStock) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin alertas de stock bajo.", props.Text{Size: 9, Top: 2, Color: colorGray}),
		)))
	} else {
		m.AddRows(lowStockHeaderRow())
		m.AddRows(lowStockRows(rep.LowStock)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionRow("ÚLTIMOS MOVIMIENTOS"))
	m.AddRows(recentHeaderRow())
	m.AddRows(recentRows(rep.Recent)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rep *report.LowStockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(rep.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de stock bajo", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryRow(rep *report.LowStockReport) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Materias primas: %d   |   Productos: %d   |   En alerta: %d",
				rep.Materials, rep.Products, len(rep.LowStock),
			), props.Text{Size: 9, Top: 3}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type, color *props.Color) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
	}))
}

func lowStockHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Nombre", 4, align.Left),
		headerCell("Categoría", 3, align.Left),
		headerCell("Unidad", 1, align.Center),
		headerCell("Stock", 2, align.Right),
		headerCell("Umbral", 2, align.Right),
	)
}

func lowStockRows(items []*entity.Item) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		threshold := "-"
		if it.LowStockAlert != nil {
			threshold = it.LowStockAlert.String()
		}
		rows = append(rows, row.New(6).Add(
			cell(it.Name, 4, align.Left, nil),
			cell(nonEmpty(it.Category, "-"), 3, align.Left, colorGray),
			cell(it.Unit, 1, align.Center, nil),
			cell(it.CurrentStock.String(), 2, align.Right, colorAlert),
			cell(threshold, 2, align.Right, nil),
		))
	}
	return rows
}

func recentHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Fecha", 3, align.Left),
		headerCell("Ítem", 3, align.Left),
		headerCell("Acción", 2, align.Center),
		headerCell("Cantidad", 2, align.Right),
		headerCell("Stock nuevo", 2, align.Right),
	)
}

func recentRows(movements []*entity.Movement) []core.Row {
	rows := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		rows = append(rows, row.New(6).Add(
			cell(mv.CreatedAt.Local().Format("02/01/2006 15:04"), 3, align.Left, colorGray),
			cell(fmt.Sprintf("%s %s", mv.ItemType, shortID(mv.ItemID)), 3, align.Left, nil),
			cell(nonEmpty(actionLabels[mv.ActionType], string(mv.ActionType)), 2, align.Center, nil),
			cell(mv.ChangeAmount.String(), 2, align.Right, nil),
			cell(mv.NewStock.String(), 2, align.Right, nil),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID recorta un UUID a sus primeros 8 caracteres.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
