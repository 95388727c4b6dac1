package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type demoItem struct {
	itemType entity.ItemType
	name     string
	category string
	unit     string
	stock    int64
	alert    int64 // 0 = sin umbral
	note     string
}

var demoItems = []demoItem{
	{entity.ItemTypeMaterial, "Aceite de oliva", "Aceites", "ml", 5000, 1000, ""},
	{entity.ItemTypeMaterial, "Aceite de coco", "Aceites", "ml", 3000, 500, ""},
	{entity.ItemTypeMaterial, "Hidróxido de sodio", "Álcalis", "g", 2000, 200, ""},
	{entity.ItemTypeMaterial, "Aceite esencial de lavanda", "Aceites esenciales", "ml", 200, 50, ""},
	{entity.ItemTypeProduct, "Jabón de lavanda", "Baño", "unidad", 50, 0, "jabón artesanal 100g"},
	{entity.ItemTypeProduct, "Jabón de aceite de oliva", "Baño", "unidad", 30, 0, "jabón artesanal 100g"},
	{entity.ItemTypeProduct, "Jabón de miel y avena", "Baño", "unidad", 45, 0, "jabón artesanal 100g"},
	{entity.ItemTypeProduct, "Jabón de carbón activado", "Baño", "unidad", 25, 0, "jabón artesanal 100g"},
}

// SeedDemoData carga el catálogo de demostración solo si el registro está vacío.
// El stock inicial entra como movimiento adj, así el ledger explica cada cantidad.
// Devuelve true si sembró datos.
func SeedDemoData(ctx context.Context, items *usecase.ItemUseCase, recorder *RecordMovementUseCase, log zerolog.Logger) (bool, error) {
	materials, err := items.Count(ctx, entity.ItemTypeMaterial)
	if err != nil {
		return false, err
	}
	products, err := items.Count(ctx, entity.ItemTypeProduct)
	if err != nil {
		return false, err
	}
	if materials > 0 || products > 0 {
		return false, nil
	}

	for _, d := range demoItems {
		req := dto.CreateItemRequest{Name: d.name, Category: d.category, Unit: d.unit, Note: d.note}
		if d.alert > 0 {
			alert := decimal.NewFromInt(d.alert)
			req.LowStockAlert = &alert
		}
		created, err := items.Create(ctx, d.itemType, req)
		if err != nil {
			return false, fmt.Errorf("seed %q: %w", d.name, err)
		}
		_, err = recorder.RecordMovement(ctx, MovementInputDTO{
			ItemID:       created.ID,
			ItemType:     d.itemType,
			ActionType:   entity.ActionAdjust,
			ChangeAmount: decimal.NewFromInt(d.stock),
			Note:         "stock inicial de demostración",
			UserID:       "seed",
		})
		if err != nil {
			return false, fmt.Errorf("seed stock %q: %w", d.name, err)
		}
	}
	log.Info().Int("items", len(demoItems)).Msg("datos de demostración cargados")
	return true, nil
}
