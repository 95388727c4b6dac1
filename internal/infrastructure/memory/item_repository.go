package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ItemRepo implementa repository.ItemRepository. Guarda y devuelve copias.
type ItemRepo struct {
	s  *Store
	tx *txState
}

var _ repository.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	key := itemKey(item.Type, item.ID)
	return write(r.s, r.tx, func(v view) error {
		if v.get(key) != nil {
			return domain.StorageError("crear ítem", fmt.Errorf("id duplicado %s", item.ID))
		}
		v.put(key, item.Clone())
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, itemType entity.ItemType, id string) (*entity.Item, error) {
	var out *entity.Item
	read(r.s, r.tx, func(v view) {
		out = v.get(itemKey(itemType, id)).Clone()
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el lock exclusivo del store.
func (r *ItemRepo) GetForUpdate(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error) {
	return r.GetByID(ctx, itemType, id)
}

func (r *ItemRepo) List(_ context.Context, itemType entity.ItemType, includeDeleted bool) ([]*entity.Item, error) {
	out := make([]*entity.Item, 0)
	read(r.s, r.tx, func(v view) {
		for _, key := range v.keys() {
			it := v.get(key)
			if it.Type != itemType || (!includeDeleted && it.Deleted()) {
				continue
			}
			out = append(out, it.Clone())
		}
	})
	return out, nil
}

func (r *ItemRepo) Count(ctx context.Context, itemType entity.ItemType) (int, error) {
	list, err := r.List(ctx, itemType, false)
	return len(list), err
}

func (r *ItemRepo) UpdateMetadata(_ context.Context, item *entity.Item) error {
	return r.modify(item.Type, item.ID, func(it *entity.Item) error {
		if it.Deleted() {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, item.Type, item.ID)
		}
		it.Name = item.Name
		it.Category = item.Category
		it.Note = item.Note
		it.LowStockAlert = nil
		if item.LowStockAlert != nil {
			v := *item.LowStockAlert
			it.LowStockAlert = &v
		}
		it.UpdatedAt = item.UpdatedAt
		return nil
	})
}

func (r *ItemRepo) UpdateStock(_ context.Context, itemType entity.ItemType, id string, stock decimal.Decimal, at time.Time) error {
	return r.modify(itemType, id, func(it *entity.Item) error {
		it.CurrentStock = stock
		it.UpdatedAt = at
		return nil
	})
}

func (r *ItemRepo) SoftDelete(_ context.Context, itemType entity.ItemType, id string, at time.Time) error {
	return r.modify(itemType, id, func(it *entity.Item) error {
		if it.Deleted() {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, itemType, id)
		}
		it.DeletedAt = &at
		it.UpdatedAt = at
		return nil
	})
}

// modify aplica fn sobre una copia y la guarda solo si fn no falla.
func (r *ItemRepo) modify(itemType entity.ItemType, id string, fn func(it *entity.Item) error) error {
	key := itemKey(itemType, id)
	return write(r.s, r.tx, func(v view) error {
		current := v.get(key)
		if current == nil {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, itemType, id)
		}
		next := current.Clone()
		if err := fn(next); err != nil {
			return err
		}
		v.put(key, next)
		return nil
	})
}
