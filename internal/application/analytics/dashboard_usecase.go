// Package analytics contiene el resumen del panel principal del inventario.
package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const dashboardRecentMovements = 10 // movimientos en el widget del dashboard

// DashboardUseCase arma el resumen del panel: conteos por tipo, materias primas con
// stock bajo y los últimos movimientos.
//
// Fuente de datos: ItemRepository y MovementRepository (solo lectura).
type DashboardUseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) *DashboardUseCase {
	return &DashboardUseCase{itemRepo: itemRepo, movRepo: movRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro lecturas en paralelo:
//  1. Count(material)
//  2. Count(product)
//  3. List(material) → ListLowStock
//  4. ListRecent(10)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		materialCount, productCount int
		materials                   []*entity.Item
		recent                      []*entity.Movement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.itemRepo.Count(gctx, entity.ItemTypeMaterial)
		if err != nil {
			return fmt.Errorf("dashboard: contar materias primas: %w", err)
		}
		materialCount = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.itemRepo.Count(gctx, entity.ItemTypeProduct)
		if err != nil {
			return fmt.Errorf("dashboard: contar productos: %w", err)
		}
		productCount = n
		return nil
	})
	g.Go(func() error {
		list, err := uc.itemRepo.List(gctx, entity.ItemTypeMaterial, false)
		if err != nil {
			return fmt.Errorf("dashboard: listar materias primas: %w", err)
		}
		materials = list
		return nil
	})
	g.Go(func() error {
		list, err := uc.movRepo.ListRecent(gctx, dashboardRecentMovements)
		if err != nil {
			return fmt.Errorf("dashboard: movimientos recientes: %w", err)
		}
		recent = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryDTO{
		MaterialCount:   materialCount,
		ProductCount:    productCount,
		LowStock:        dto.ItemsFromEntities(inventory.ListLowStock(materials)),
		RecentMovements: dto.MovementsFromEntities(recent),
	}, nil
}
