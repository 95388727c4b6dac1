package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// MaxRecentLimit tope de ListRecentMovements.
const MaxRecentLimit = 200

// LedgerQueryUseCase consultas de solo lectura sobre el ledger de movimientos.
type LedgerQueryUseCase struct {
	movRepo repository.MovementRepository
	now     func() time.Time
}

// NewLedgerQueryUseCase construye el caso de uso. now define el "hoy" del filtro Today (zona local del servidor).
func NewLedgerQueryUseCase(movRepo repository.MovementRepository, now func() time.Time) *LedgerQueryUseCase {
	if now == nil {
		now = time.Now
	}
	return &LedgerQueryUseCase{movRepo: movRepo, now: now}
}

// ListMovements devuelve los eventos que cumplen todos los filtros, más recientes primero.
// Today reemplaza From/To por el día calendario actual.
func (uc *LedgerQueryUseCase) ListMovements(ctx context.Context, in dto.MovementFilterRequest) ([]dto.MovementResponse, error) {
	filter := repository.MovementFilter{
		ItemID: strings.TrimSpace(in.ItemID),
		From:   in.From,
		To:     in.To,
	}
	if in.ItemType != "" {
		t, ok := entity.ParseItemType(in.ItemType)
		if !ok {
			return nil, domain.Invalid("item_type desconocido %q", in.ItemType)
		}
		filter.ItemType = t
	}
	if in.Today {
		from, to := DayBounds(uc.now())
		filter.From, filter.To = &from, &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.Invalid("from posterior a to")
	}

	list, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.MovementsFromEntities(list), nil
}

// ListRecentMovements los últimos limit eventos de todos los ítems, más recientes primero.
func (uc *LedgerQueryUseCase) ListRecentMovements(ctx context.Context, limit int) ([]dto.MovementResponse, error) {
	if limit <= 0 {
		return nil, domain.Invalid("limit debe ser mayor que cero")
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	list, err := uc.movRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.MovementsFromEntities(list), nil
}

// DayBounds inicio y fin (inclusivos) del día calendario de t en su propia zona.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
