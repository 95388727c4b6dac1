package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre SQLite (usable con db o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar db o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, item_type, name, category, unit, current_stock, low_stock_alert, note, created_at, updated_at, deleted_at`

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		item.ID, string(item.Type), item.Name, item.Category, item.Unit,
		item.CurrentStock, nullDecimal(item.LowStockAlert), item.Note,
		formatTime(item.CreatedAt), formatTime(item.UpdatedAt), nullTime(item.DeletedAt),
	)
	return domain.StorageError("crear ítem", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_type = ? AND id = ?`
	item, err := scanItem(r.q.QueryRowContext(ctx, query, string(itemType), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("obtener ítem", err)
	}
	return item, nil
}

// GetForUpdate lee el ítem; dentro de una tx IMMEDIATE la base ya está reservada para escritura.
func (r *ItemRepo) GetForUpdate(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error) {
	return r.GetByID(ctx, itemType, id)
}

func (r *ItemRepo) List(ctx context.Context, itemType entity.ItemType, includeDeleted bool) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_type = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY seq`
	rows, err := r.q.QueryContext(ctx, query, string(itemType))
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
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE item_type = ? AND deleted_at IS NULL`, string(itemType),
	).Scan(&n)
	if err != nil {
		return 0, domain.StorageError("contar ítems", err)
	}
	return n, nil
}

func (r *ItemRepo) UpdateMetadata(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = ?, category = ?, note = ?, low_stock_alert = ?, updated_at = ?
		WHERE item_type = ? AND id = ? AND deleted_at IS NULL`
	res, err := r.q.ExecContext(ctx, query,
		item.Name, item.Category, item.Note, nullDecimal(item.LowStockAlert), formatTime(item.UpdatedAt),
		string(item.Type), item.ID,
	)
	return affected(res, err, "actualizar ítem", item.Type, item.ID)
}

func (r *ItemRepo) UpdateStock(ctx context.Context, itemType entity.ItemType, id string, stock decimal.Decimal, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE items SET current_stock = ?, updated_at = ? WHERE item_type = ? AND id = ?`,
		stock, formatTime(at), string(itemType), id,
	)
	return affected(res, err, "actualizar stock", itemType, id)
}

func (r *ItemRepo) SoftDelete(ctx context.Context, itemType entity.ItemType, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE items SET deleted_at = ?, updated_at = ? WHERE item_type = ? AND id = ? AND deleted_at IS NULL`,
		formatTime(at), formatTime(at), string(itemType), id,
	)
	return affected(res, err, "eliminar ítem", itemType, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.Item, error) {
	var (
		it               entity.Item
		itemType         string
		alert            decimal.NullDecimal
		created, updated string
		deleted          sql.NullString
	)
	err := row.Scan(&it.ID, &itemType, &it.Name, &it.Category, &it.Unit,
		&it.CurrentStock, &alert, &it.Note, &created, &updated, &deleted)
	if err != nil {
		return nil, err
	}
	it.Type = entity.ItemType(itemType)
	if alert.Valid {
		v := alert.Decimal
		it.LowStockAlert = &v
	}
	if it.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if it.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if deleted.Valid {
		t, err := parseTime(deleted.String)
		if err != nil {
			return nil, err
		}
		it.DeletedAt = &t
	}
	return &it, nil
}

func nullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *v, Valid: true}
}

// affected traduce un UPDATE sin filas afectadas en ErrNotFound.
func affected(res sql.Result, err error, op string, itemType entity.ItemType, id string) error {
	if err != nil {
		return domain.StorageError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StorageError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w: %s %s", op, domain.ErrNotFound, itemType, id)
	}
	return nil
}
