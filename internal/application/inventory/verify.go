package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LedgerVerifyUseCase compara el stock cacheado con la reproducción del ledger.
// Toma el mismo candado por ítem que el motor, así nunca observa una mutación a medias.
type LedgerVerifyUseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
	locker   *KeyedLocker
}

// NewLedgerVerifyUseCase construye el caso de uso; locker debe ser el mismo del RecordMovementUseCase.
func NewLedgerVerifyUseCase(itemRepo repository.ItemRepository, movRepo repository.MovementRepository, locker *KeyedLocker) *LedgerVerifyUseCase {
	if locker == nil {
		locker = NewKeyedLocker()
	}
	return &LedgerVerifyUseCase{itemRepo: itemRepo, movRepo: movRepo, locker: locker}
}

// VerifyItem reproduce los eventos de un ítem (incluidos los eliminados) y reporta si coincide con su stock.
func (uc *LedgerVerifyUseCase) VerifyItem(ctx context.Context, itemType entity.ItemType, id string) (*dto.LedgerVerificationDTO, error) {
	if !itemType.Valid() {
		return nil, domain.Invalid("item_type desconocido %q", itemType)
	}
	unlock, err := uc.locker.Lock(ctx, ItemLockKey(itemType, id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	item, err := uc.itemRepo.GetByID(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, itemType, id)
	}
	events, err := uc.movRepo.ListByItem(ctx, itemType, id)
	if err != nil {
		return nil, err
	}

	report := &dto.LedgerVerificationDTO{
		ItemID:   item.ID,
		ItemType: string(item.Type),
		Cached:   item.CurrentStock,
		Events:   len(events),
	}
	replayed, err := inventory.Replay(events)
	report.Replayed = replayed
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	report.Consistent = replayed.Equal(item.CurrentStock)
	return report, nil
}

// VerifyAll verifica todos los ítems (vivos y eliminados) y devuelve solo los inconsistentes.
func (uc *LedgerVerifyUseCase) VerifyAll(ctx context.Context) ([]dto.LedgerVerificationDTO, error) {
	out := make([]dto.LedgerVerificationDTO, 0)
	for _, t := range []entity.ItemType{entity.ItemTypeMaterial, entity.ItemTypeProduct} {
		items, err := uc.itemRepo.List(ctx, t, true)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			report, err := uc.VerifyItem(ctx, t, it.ID)
			if err != nil {
				return nil, err
			}
			if !report.Consistent {
				out = append(out, *report)
			}
		}
	}
	return out, nil
}
