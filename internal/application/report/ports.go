// Package report arma los reportes descargables del inventario (Excel y PDF).
// Solo consume las operaciones de lectura del registro y del ledger.
package report

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventorySnapshot fotografía del inventario en un instante.
type InventorySnapshot struct {
	GeneratedAt time.Time
	Materials   []*entity.Item
	Products    []*entity.Item
	Movements   []*entity.Movement // más recientes primero
}

// LowStockReport datos del PDF de stock bajo.
type LowStockReport struct {
	Title       string
	GeneratedAt time.Time
	Materials   int
	Products    int
	LowStock    []*entity.Item
	Recent      []*entity.Movement
}

// WorkbookExporter genera el libro Excel del inventario.
type WorkbookExporter interface {
	ExportInventory(ctx context.Context, snap *InventorySnapshot) ([]byte, error)
}

// LowStockPDFGenerator genera el PDF de stock bajo.
type LowStockPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, rep *LowStockReport) ([]byte, error)
}
