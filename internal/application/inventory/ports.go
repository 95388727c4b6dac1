package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de almacenamiento, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y el error se propaga sin envolver; si no, Commit.
// Garantiza atomicidad entre el evento del ledger y el stock cacheado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// MovementMetrics puerto de observabilidad del motor de movimientos.
type MovementMetrics interface {
	MovementRecorded(action string, elapsed time.Duration)
	MovementRejected(reason string)
}

type noopMetrics struct{}

func (noopMetrics) MovementRecorded(string, time.Duration) {}
func (noopMetrics) MovementRejected(string)                {}
