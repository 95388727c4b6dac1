package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger append-only sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q  Querier
	sb sq.StatementBuilderType
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
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
		m.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	query, args, err := r.sb.
		Insert("movements").
		Columns(movementColumns[1:]...).
		Values(m.ID, string(m.ItemType), m.ItemID, string(m.ActionType), m.ChangeAmount, m.OldStock, m.NewStock,
			m.RelatedBatch, m.Note, m.CreatedBy, m.CreatedAt).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return domain.StorageError("registrar movimiento", err)
	}
	if err := r.q.QueryRow(ctx, query, args...).Scan(&m.Seq); err != nil {
		if isForeignKeyViolation(err) {
			err = fmt.Errorf("ítem %s %s inexistente: %w", m.ItemType, m.ItemID, err)
		}
		return domain.StorageError("registrar movimiento", err)
	}
	return nil
}

func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error) {
	return r.List(ctx, repository.MovementFilter{Limit: limit})
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	q := r.sb.Select(movementColumns...).From("movements").OrderBy("seq DESC")
	if f.ItemType != "" {
		q = q.Where(sq.Eq{"item_type": string(f.ItemType)})
	}
	if f.ItemID != "" {
		q = q.Where(sq.Eq{"item_id": f.ItemID})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(sq.LtOrEq{"created_at": *f.To})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	return r.query(ctx, q)
}

func (r *MovementRepo) ListByItem(ctx context.Context, itemType entity.ItemType, id string) ([]*entity.Movement, error) {
	q := r.sb.Select(movementColumns...).From("movements").
		Where(sq.Eq{"item_type": string(itemType), "item_id": id}).
		OrderBy("seq ASC")
	return r.query(ctx, q)
}

func (r *MovementRepo) query(ctx context.Context, q sq.SelectBuilder) ([]*entity.Movement, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, domain.StorageError("listar movimientos", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("listar movimientos", err)
	}
	defer rows.Close()

	out := make([]*entity.Movement, 0)
	for rows.Next() {
		var (
			m                entity.Movement
			itemType, action string
		)
		if err := rows.Scan(&m.Seq, &m.ID, &itemType, &m.ItemID, &action, &m.ChangeAmount, &m.OldStock, &m.NewStock,
			&m.RelatedBatch, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, domain.StorageError("listar movimientos", err)
		}
		m.ItemType = entity.ItemType(itemType)
		m.ActionType = entity.ActionType(action)
		m.CreatedAt = m.CreatedAt.UTC()
		out = append(out, &m)
	}
	return out, domain.StorageError("listar movimientos", rows.Err())
}
