package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const pdfRecentMovements = 10

// UseCase genera los reportes descargables.
type UseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
	excel    WorkbookExporter
	pdf      LowStockPDFGenerator
	title    string
	now      func() time.Time
}

// NewUseCase construye el caso de uso. title encabeza el PDF (normalmente APP_NAME).
func NewUseCase(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	excel WorkbookExporter,
	pdf LowStockPDFGenerator,
	title string,
) *UseCase {
	return &UseCase{
		itemRepo: itemRepo,
		movRepo:  movRepo,
		excel:    excel,
		pdf:      pdf,
		title:    title,
		now:      time.Now,
	}
}

// ExportWorkbook devuelve el libro Excel y su nombre de archivo.
func (uc *UseCase) ExportWorkbook(ctx context.Context) ([]byte, string, error) {
	now := uc.now()
	materials, products, err := uc.liveItems(ctx)
	if err != nil {
		return nil, "", err
	}
	movements, err := uc.movRepo.List(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: listar movimientos: %w", err)
	}
	data, err := uc.excel.ExportInventory(ctx, &InventorySnapshot{
		GeneratedAt: now,
		Materials:   materials,
		Products:    products,
		Movements:   movements,
	})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar excel: %w", err)
	}
	return data, fmt.Sprintf("inventario_%s.xlsx", now.Format("20060102_150405")), nil
}

// LowStockPDF devuelve el PDF de materias primas bajo umbral y su nombre de archivo.
func (uc *UseCase) LowStockPDF(ctx context.Context) ([]byte, string, error) {
	now := uc.now()
	materials, products, err := uc.liveItems(ctx)
	if err != nil {
		return nil, "", err
	}
	recent, err := uc.movRepo.ListRecent(ctx, pdfRecentMovements)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: movimientos recientes: %w", err)
	}
	data, err := uc.pdf.GenerateLowStockPDF(ctx, &LowStockReport{
		Title:       uc.title,
		GeneratedAt: now,
		Materials:   len(materials),
		Products:    len(products),
		LowStock:    inventory.ListLowStock(materials),
		Recent:      recent,
	})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	return data, fmt.Sprintf("stock_bajo_%s.pdf", now.Format("20060102")), nil
}

func (uc *UseCase) liveItems(ctx context.Context) ([]*entity.Item, []*entity.Item, error) {
	materials, err := uc.itemRepo.List(ctx, entity.ItemTypeMaterial, false)
	if err != nil {
		return nil, nil, fmt.Errorf("reporte: listar materias primas: %w", err)
	}
	products, err := uc.itemRepo.List(ctx, entity.ItemTypeProduct, false)
	if err != nil {
		return nil, nil, fmt.Errorf("reporte: listar productos: %w", err)
	}
	return materials, products, nil
}
