package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del registro de ítems (DIP).
// Las implementaciones devuelven (nil, nil) cuando el ítem no existe, igual que el resto de repositorios.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	// GetByID incluye ítems dados de baja; el caso de uso decide si los oculta.
	GetByID(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error)
	// GetForUpdate lee el ítem bloqueándolo hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error)
	List(ctx context.Context, itemType entity.ItemType, includeDeleted bool) ([]*entity.Item, error)
	Count(ctx context.Context, itemType entity.ItemType) (int, error)
	// UpdateMetadata persiste nombre, categoría, nota y umbral. No toca unidad ni stock.
	UpdateMetadata(ctx context.Context, item *entity.Item) error
	// UpdateStock es exclusivo del motor de movimientos.
	UpdateStock(ctx context.Context, itemType entity.ItemType, id string, stock decimal.Decimal, at time.Time) error
	SoftDelete(ctx context.Context, itemType entity.ItemType, id string, at time.Time) error
}
