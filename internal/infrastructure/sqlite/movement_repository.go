package sqlite

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger append-only sobre SQLite (usable con db o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar db o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

var movementColumns = []string{
	"seq", "id", "item_type", "item_id", "action_type", "change_amount", "old_stock", "new_stock",
	"related_batch", "note", "created_by", "created_at",
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.Must(uuid.NewV7()).String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	query, args, err := builder.
		Insert("movements").
		Columns(movementColumns[1:]...).
		Values(m.ID, string(m.ItemType), m.ItemID, string(m.ActionType), m.ChangeAmount, m.OldStock, m.NewStock,
			m.RelatedBatch, m.Note, m.CreatedBy, formatTime(m.CreatedAt)).
		ToSql()
	if err != nil {
		return domain.StorageError("registrar movimiento", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.StorageError("registrar movimiento", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return domain.StorageError("registrar movimiento", err)
	}
	m.Seq = seq
	return nil
}

func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error) {
	return r.List(ctx, repository.MovementFilter{Limit: limit})
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	q := builder.Select(movementColumns...).From("movements").OrderBy("seq DESC")
	if f.ItemType != "" {
		q = q.Where(sq.Eq{"item_type": string(f.ItemType)})
	}
	if f.ItemID != "" {
		q = q.Where(sq.Eq{"item_id": f.ItemID})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"created_at": formatTime(*f.From)})
	}
	if f.To != nil {
		q = q.Where(sq.LtOrEq{"created_at": formatTime(*f.To)})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	return r.query(ctx, q)
}

func (r *MovementRepo) ListByItem(ctx context.Context, itemType entity.ItemType, id string) ([]*entity.Movement, error) {
	q := builder.Select(movementColumns...).From("movements").
		Where(sq.Eq{"item_type": string(itemType), "item_id": id}).
		OrderBy("seq ASC")
	return r.query(ctx, q)
}

func (r *MovementRepo) query(ctx context.Context, q sq.SelectBuilder) ([]*entity.Movement, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, domain.StorageError("listar movimientos", err)
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("listar movimientos", err)
	}
	defer rows.Close()

	out := make([]*entity.Movement, 0)
	for rows.Next() {
		var (
			m                entity.Movement
			itemType, action string
			created          string
		)
		if err := rows.Scan(&m.Seq, &m.ID, &itemType, &m.ItemID, &action, &m.ChangeAmount, &m.OldStock, &m.NewStock,
			&m.RelatedBatch, &m.Note, &m.CreatedBy, &created); err != nil {
			return nil, domain.StorageError("listar movimientos", err)
		}
		m.ItemType = entity.ItemType(itemType)
		m.ActionType = entity.ActionType(action)
		if m.CreatedAt, err = parseTime(created); err != nil {
			return nil, domain.StorageError("listar movimientos", err)
		}
		out = append(out, &m)
	}
	return out, domain.StorageError("listar movimientos", rows.Err())
}
