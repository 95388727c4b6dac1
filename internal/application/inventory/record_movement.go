package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// RecordMovementUseCase registra movimientos de stock (in, out, adj) de forma transaccional:
// exclusión por ítem (KeyedLocker), bloqueo de fila en el almacenamiento y Commit/Rollback.
// Evento del ledger y stock cacheado se escriben juntos o ninguno.
type RecordMovementUseCase struct {
	txRunner TxRunner
	locker   *KeyedLocker
	metrics  MovementMetrics
	log      zerolog.Logger
	now      func() time.Time
}

// Option configura RecordMovementUseCase.
type Option func(*RecordMovementUseCase)

// WithMetrics registra contadores y latencia de cada intento.
func WithMetrics(m MovementMetrics) Option {
	return func(uc *RecordMovementUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

// WithLogger asigna el logger estructurado.
func WithLogger(log zerolog.Logger) Option {
	return func(uc *RecordMovementUseCase) { uc.log = log }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *RecordMovementUseCase) { uc.now = now }
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(txRunner TxRunner, locker *KeyedLocker, opts ...Option) *RecordMovementUseCase {
	uc := &RecordMovementUseCase{
		txRunner: txRunner,
		locker:   locker,
		metrics:  noopMetrics{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.locker == nil {
		uc.locker = NewKeyedLocker()
	}
	return uc
}

// MovementInputDTO entrada para registrar un movimiento.
type MovementInputDTO struct {
	ItemID       string
	ItemType     entity.ItemType
	ActionType   entity.ActionType
	ChangeAmount decimal.Decimal
	RelatedBatch string
	Note         string
	UserID       string
}

// MovementResult evento persistido y stock resultante.
type MovementResult struct {
	Movement *entity.Movement
	NewStock decimal.Decimal
}

// RecordMovement valida la entrada, adquiere el ítem y dentro de una transacción:
// lee el stock con bloqueo, calcula S', agrega el evento y actualiza el stock cacheado.
// Cualquier error deja el ítem y el ledger como estaban.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, input MovementInputDTO) (*MovementResult, error) {
	start := time.Now()
	result, err := uc.record(ctx, input)
	if err != nil {
		reason := RejectReason(err)
		uc.metrics.MovementRejected(reason)
		ev := uc.log.Warn()
		if reason == "storage" || reason == "internal" {
			ev = uc.log.Error()
		}
		ev.Err(err).
			Str("item_type", string(input.ItemType)).
			Str("item_id", input.ItemID).
			Str("action", string(input.ActionType)).
			Str("reason", reason).
			Msg("movimiento rechazado")
		return nil, err
	}
	uc.metrics.MovementRecorded(string(result.Movement.ActionType), time.Since(start))
	uc.log.Info().
		Str("movement_id", result.Movement.ID).
		Int64("seq", result.Movement.Seq).
		Str("item_type", string(result.Movement.ItemType)).
		Str("item_id", result.Movement.ItemID).
		Str("action", string(result.Movement.ActionType)).
		Str("old_stock", result.Movement.OldStock.String()).
		Str("new_stock", result.NewStock.String()).
		Msg("movimiento registrado")
	return result, nil
}

func (uc *RecordMovementUseCase) record(ctx context.Context, input MovementInputDTO) (*MovementResult, error) {
	if !input.ItemType.Valid() {
		return nil, domain.Invalid("item_type desconocido %q", input.ItemType)
	}
	input.ItemID = strings.TrimSpace(input.ItemID)
	if input.ItemID == "" {
		return nil, domain.Invalid("item_id es obligatorio")
	}
	if err := inventory.ValidateAmount(input.ActionType, input.ChangeAmount); err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Lock(ctx, ItemLockKey(input.ItemType, input.ItemID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *MovementResult
	err = uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		// Bloquea la fila del ítem (SELECT FOR UPDATE donde aplique)
		item, err := itemRepo.GetForUpdate(ctx, input.ItemType, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.Deleted() {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, input.ItemType, input.ItemID)
		}

		next, err := inventory.StockCalculator(item.CurrentStock, input.ActionType, input.ChangeAmount)
		if err != nil {
			return err
		}

		now := uc.now().UTC().Truncate(time.Microsecond)
		mov := &entity.Movement{
			ID:           uuid.Must(uuid.NewV7()).String(),
			ItemID:       item.ID,
			ItemType:     item.Type,
			ActionType:   input.ActionType,
			ChangeAmount: input.ChangeAmount,
			OldStock:     item.CurrentStock,
			NewStock:     next,
			RelatedBatch: strings.TrimSpace(input.RelatedBatch),
			Note:         input.Note,
			CreatedBy:    input.UserID,
			CreatedAt:    now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := itemRepo.UpdateStock(ctx, item.Type, item.ID, next, now); err != nil {
			return err
		}
		result = &MovementResult{Movement: mov, NewStock: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RejectReason clasifica un error del motor para métricas y logs.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}
