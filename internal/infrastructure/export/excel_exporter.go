// Package export genera el libro Excel del inventario con excelize.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// Nombres de hoja.
const (
	SheetMaterials = "Materias primas"
	SheetProducts  = "Productos"
	SheetMovements = "Movimientos"
)

const dateLayout = "2006-01-02 15:04:05"

var _ report.WorkbookExporter = (*ExcelExporter)(nil)

// ExcelExporter implementa report.WorkbookExporter.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// ExportInventory escribe una hoja por tipo de ítem y otra con el ledger completo.
func (e *ExcelExporter) ExportInventory(_ context.Context, snap *report.InventorySnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetMaterials); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	for _, name := range []string{SheetProducts, SheetMovements} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("excel: crear hoja %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	itemHeader := []any{"ID", "Nombre", "Categoría", "Unidad", "Stock actual", "Alerta stock bajo", "Stock bajo", "Nota", "Creado"}
	if err := writeRows(f, SheetMaterials, bold, itemHeader, itemRows(snap.Materials)); err != nil {
		return nil, err
	}
	if err := writeRows(f, SheetProducts, bold, itemHeader, itemRows(snap.Products)); err != nil {
		return nil, err
	}
	movHeader := []any{"Seq", "Fecha", "Tipo ítem", "ID ítem", "Acción", "Cantidad", "Stock anterior", "Stock nuevo", "Lote", "Nota", "Usuario"}
	if err := writeRows(f, SheetMovements, bold, movHeader, movementRows(snap.Movements)); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: encabezado %s: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("excel: celdas %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("excel: estilo %s: %w", sheet, err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: celdas %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("excel: fila %d de %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

func itemRows(items []*entity.Item) [][]any {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		alert := ""
		if it.LowStockAlert != nil {
			alert = it.LowStockAlert.String()
		}
		low := "no"
		if inventory.IsLow(it) {
			low = "sí"
		}
		rows = append(rows, []any{
			it.ID, it.Name, it.Category, it.Unit, it.CurrentStock.InexactFloat64(), alert, low, it.Note,
			it.CreatedAt.Local().Format(dateLayout),
		})
	}
	return rows
}

func movementRows(movements []*entity.Movement) [][]any {
	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []any{
			m.Seq, m.CreatedAt.Local().Format(dateLayout), string(m.ItemType), m.ItemID, string(m.ActionType),
			m.ChangeAmount.InexactFloat64(), m.OldStock.InexactFloat64(), m.NewStock.InexactFloat64(),
			m.RelatedBatch, m.Note, m.CreatedBy,
		})
	}
	return rows
}
