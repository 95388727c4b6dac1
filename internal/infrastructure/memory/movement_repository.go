package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// MovementRepo implementa repository.MovementRepository. Solo agrega, nunca modifica.
type MovementRepo struct {
	s  *Store
	tx *txState
}

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return write(r.s, r.tx, func(v view) error {
		if m.ID == "" {
			m.ID = uuid.Must(uuid.NewV7()).String()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		m.Seq = v.nextSeq()
		v.appendMovement(m.Clone())
		return nil
	})
}

func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error) {
	return r.List(ctx, repository.MovementFilter{Limit: limit})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	read(r.s, r.tx, func(v view) {
		all := v.movementList()
		for i := len(all) - 1; i >= 0; i-- {
			if f.Limit > 0 && len(out) == f.Limit {
				return
			}
			m := all[i]
			if f.ItemType != "" && m.ItemType != f.ItemType {
				continue
			}
			if f.ItemID != "" && m.ItemID != f.ItemID {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			out = append(out, m.Clone())
		}
	})
	return out, nil
}

func (r *MovementRepo) ListByItem(_ context.Context, itemType entity.ItemType, id string) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	read(r.s, r.tx, func(v view) {
		for _, m := range v.movementList() {
			if m.ItemType == itemType && m.ItemID == id {
				out = append(out, m.Clone())
			}
		}
	})
	return out, nil
}
