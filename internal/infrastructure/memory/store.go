// Package memory implementa los repositorios y el TxRunner sobre mapas en memoria.
// Pensado para tests y para STORE_DRIVER=memory; no persiste entre reinicios.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Store guarda ítems y eventos. Una transacción toma el lock de escritura completo y
// acumula sus cambios en un buffer que solo se aplica si fn termina sin error.
type Store struct {
	mu sync.RWMutex

	items     map[string]*entity.Item
	order     []string // orden de creación
	movements []*entity.Movement
	seq       int64
}

// New crea un store vacío.
func New() *Store {
	return &Store{items: make(map[string]*entity.Item)}
}

var _ inventory.TxRunner = (*Store)(nil)

// Items repositorio de ítems fuera de transacción.
func (s *Store) Items() repository.ItemRepository { return &ItemRepo{s: s} }

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() repository.MovementRepository { return &MovementRepo{s: s} }

// Run ejecuta fn con repositorios atados a una transacción. Error en fn = nada se aplica.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{s: s, items: make(map[string]*entity.Item), seq: s.seq}
	if err := fn(&ItemRepo{s: s, tx: tx}, &MovementRepo{s: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func itemKey(t entity.ItemType, id string) string { return string(t) + ":" + id }

// view abstrae el estado visible: directo sobre el store o con el buffer de una tx encima.
type view interface {
	get(key string) *entity.Item
	put(key string, it *entity.Item)
	keys() []string
	nextSeq() int64
	appendMovement(m *entity.Movement)
	movementList() []*entity.Movement
}

type direct struct{ s *Store }

func (d direct) get(key string) *entity.Item { return d.s.items[key] }

func (d direct) put(key string, it *entity.Item) {
	if _, ok := d.s.items[key]; !ok {
		d.s.order = append(d.s.order, key)
	}
	d.s.items[key] = it
}

func (d direct) keys() []string { return d.s.order }

func (d direct) nextSeq() int64 {
	d.s.seq++
	return d.s.seq
}

func (d direct) appendMovement(m *entity.Movement) { d.s.movements = append(d.s.movements, m) }

func (d direct) movementList() []*entity.Movement { return d.s.movements }

type txState struct {
	s         *Store
	items     map[string]*entity.Item
	order     []string
	movements []*entity.Movement
	seq       int64
}

func (t *txState) get(key string) *entity.Item {
	if it, ok := t.items[key]; ok {
		return it
	}
	return t.s.items[key]
}

func (t *txState) put(key string, it *entity.Item) {
	_, inTx := t.items[key]
	_, inBase := t.s.items[key]
	if !inTx && !inBase {
		t.order = append(t.order, key)
	}
	t.items[key] = it
}

func (t *txState) keys() []string {
	out := make([]string, 0, len(t.s.order)+len(t.order))
	out = append(out, t.s.order...)
	return append(out, t.order...)
}

func (t *txState) nextSeq() int64 {
	t.seq++
	return t.seq
}

func (t *txState) appendMovement(m *entity.Movement) { t.movements = append(t.movements, m) }

func (t *txState) movementList() []*entity.Movement {
	out := make([]*entity.Movement, 0, len(t.s.movements)+len(t.movements))
	out = append(out, t.s.movements...)
	return append(out, t.movements...)
}

func (t *txState) commit() {
	for key, it := range t.items {
		t.s.items[key] = it
	}
	t.s.order = append(t.s.order, t.order...)
	t.s.movements = append(t.s.movements, t.movements...)
	t.s.seq = t.seq
}

// read ejecuta fn con el lock de lectura, o sin lock si ya está dentro de una tx.
func read(s *Store, tx *txState, fn func(v view)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(direct{s})
}

func write(s *Store, tx *txState, fn func(v view) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(direct{s})
}
