package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, item_type, name, category, unit, current_stock, low_stock_alert, note, created_at, updated_at, deleted_at`

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, string(item.Type), item.Name, item.Category, item.Unit,
		item.CurrentStock, item.LowStockAlert, item.Note,
		item.CreatedAt, item.UpdatedAt, item.DeletedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return domain.StorageError("crear ítem", fmt.Errorf("id duplicado %s: %w", item.ID, err))
	}
	return domain.StorageError("crear ítem", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_type = $1 AND id = $2`
	return r.get(ctx, query, "obtener ítem", itemType, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_type = $1 AND id = $2 FOR UPDATE`
	return r.get(ctx, query, "obtener ítem para update", itemType, id)
}

func (r *ItemRepo) get(ctx context.Context, query, op string, itemType entity.ItemType, id string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, string(itemType), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError(op, err)
	}
	return item, nil
}

func (r *ItemRepo) List(ctx context.Context, itemType entity.ItemType, includeDeleted bool) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_type = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY seq`
	rows, err := r.q.Query(ctx, query, string(itemType))
	if err != nil {
		return nil, domain.StorageError("listar ítems", err)
	}
	defer rows.Close()

	out := make([]*entity.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, domain.StorageError("listar ítems", err)
		}
		out = append(out, item)
	}
	return out, domain.StorageError("listar ítems", rows.Err())
}

func (r *ItemRepo) Count(ctx context.Context, itemType entity.ItemType) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM items WHERE item_type = $1 AND deleted_at IS NULL`, string(itemType),
	).Scan(&n)
	if err != nil {
		return 0, domain.StorageError("contar ítems", err)
	}
	return n, nil
}

func (r *ItemRepo) UpdateMetadata(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $1, category = $2, note = $3, low_stock_alert = $4, updated_at = $5
		WHERE item_type = $6 AND id = $7 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query,
		item.Name, item.Category, item.Note, item.LowStockAlert, item.UpdatedAt, string(item.Type), item.ID,
	)
	return affected(tag, err, "actualizar ítem", item.Type, item.ID)
}

func (r *ItemRepo) UpdateStock(ctx context.Context, itemType entity.ItemType, id string, stock decimal.Decimal, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET current_stock = $1, updated_at = $2 WHERE item_type = $3 AND id = $4`,
		stock, at, string(itemType), id,
	)
	return affected(tag, err, "actualizar stock", itemType, id)
}

func (r *ItemRepo) SoftDelete(ctx context.Context, itemType entity.ItemType, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET deleted_at = $1, updated_at = $1 WHERE item_type = $2 AND id = $3 AND deleted_at IS NULL`,
		at, string(itemType), id,
	)
	return affected(tag, err, "eliminar ítem", itemType, id)
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		it       entity.Item
		itemType string
		alert    decimal.NullDecimal
	)
	err := row.Scan(&it.ID, &itemType, &it.Name, &it.Category, &it.Unit,
		&it.CurrentStock, &alert, &it.Note, &it.CreatedAt, &it.UpdatedAt, &it.DeletedAt)
	if err != nil {
		return nil, err
	}
	it.Type = entity.ItemType(itemType)
	if alert.Valid {
		v := alert.Decimal
		it.LowStockAlert = &v
	}
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	if it.DeletedAt != nil {
		t := it.DeletedAt.UTC()
		it.DeletedAt = &t
	}
	return &it, nil
}

// affected traduce un UPDATE sin filas afectadas en ErrNotFound.
func affected(tag pgconn.CommandTag, err error, op string, itemType entity.ItemType, id string) error {
	if err != nil {
		return domain.StorageError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w: %s %s", op, domain.ErrNotFound, itemType, id)
	}
	return nil
}
