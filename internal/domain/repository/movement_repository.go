package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter filtros del listado del ledger. Los límites de fecha son inclusivos y opcionales.
type MovementFilter struct {
	ItemType entity.ItemType // vacío = todos
	ItemID   string
	From     *time.Time
	To       *time.Time
	Limit    int // 0 = sin límite
}

// MovementRepository define el puerto del ledger de movimientos. Solo permite agregar:
// no existe operación de edición ni de borrado.
type MovementRepository interface {
	// Create asigna Seq (y ID/CreatedAt si vienen vacíos) y persiste el evento.
	Create(ctx context.Context, movement *entity.Movement) error
	// ListRecent devuelve los últimos eventos, más reciente primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error)
	// List devuelve los eventos que cumplen el filtro, más reciente primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListByItem devuelve el historial de un ítem en orden de creación (para replay).
	ListByItem(ctx context.Context, itemType entity.ItemType, itemID string) ([]*entity.Movement, error)
}
