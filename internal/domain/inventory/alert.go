package inventory

import (
	"github.com/samber/lo"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// IsLow es verdadero si el ítem tiene umbral configurado y su stock está en o por debajo de él.
// Ítems sin umbral nunca alertan.
func IsLow(item *entity.Item) bool {
	if item == nil || item.LowStockAlert == nil {
		return false
	}
	return item.CurrentStock.LessThanOrEqual(*item.LowStockAlert)
}

// ListLowStock filtra la colección conservando el orden original.
func ListLowStock(items []*entity.Item) []*entity.Item {
	return lo.Filter(items, func(item *entity.Item, _ int) bool {
		return IsLow(item)
	})
}
