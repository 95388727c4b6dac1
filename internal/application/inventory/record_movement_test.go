package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type engine struct {
	store    *memory.Store
	locker   *inventory.KeyedLocker
	items    *usecase.ItemUseCase
	recorder *inventory.RecordMovementUseCase
	verifier *inventory.LedgerVerifyUseCase
	metrics  *fakeMetrics
}

func newEngine(t *testing.T, opts ...inventory.Option) *engine {
	t.Helper()
	store := memory.New()
	locker := inventory.NewKeyedLocker()
	metrics := &fakeMetrics{recorded: map[string]int{}, rejected: map[string]int{}}
	opts = append([]inventory.Option{inventory.WithMetrics(metrics)}, opts...)
	return &engine{
		store:    store,
		locker:   locker,
		items:    usecase.NewItemUseCase(store.Items()),
		recorder: inventory.NewRecordMovementUseCase(store, locker, opts...),
		verifier: inventory.NewLedgerVerifyUseCase(store.Items(), store.Movements(), locker),
		metrics:  metrics,
	}
}

func (e *engine) material(t *testing.T, name string) *dto.ItemResponse {
	t.Helper()
	it, err := e.items.Create(context.Background(), entity.ItemTypeMaterial, dto.CreateItemRequest{Name: name, Unit: "g"})
	require.NoError(t, err)
	return it
}

// forceStock fija el stock cacheado sin pasar por el motor (estado inicial de escenarios).
func (e *engine) forceStock(t *testing.T, id string, stock string) {
	t.Helper()
	err := e.store.Run(context.Background(), func(items repository.ItemRepository, _ repository.MovementRepository) error {
		return items.UpdateStock(context.Background(), entity.ItemTypeMaterial, id, d(stock), time.Now())
	})
	require.NoError(t, err)
}

func (e *engine) record(id string, action entity.ActionType, amount string) (*inventory.MovementResult, error) {
	return e.recorder.RecordMovement(context.Background(), inventory.MovementInputDTO{
		ItemID:       id,
		ItemType:     entity.ItemTypeMaterial,
		ActionType:   action,
		ChangeAmount: d(amount),
		UserID:       "operador",
	})
}

func (e *engine) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, err := e.store.Items().GetByID(context.Background(), entity.ItemTypeMaterial, id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.CurrentStock
}

func (e *engine) events(t *testing.T, id string) []*entity.Movement {
	t.Helper()
	list, err := e.store.Movements().ListByItem(context.Background(), entity.ItemTypeMaterial, id)
	require.NoError(t, err)
	return list
}

type fakeMetrics struct {
	mu       sync.Mutex
	recorded map[string]int
	rejected map[string]int
}

func (m *fakeMetrics) MovementRecorded(action string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded[action]++
}

func (m *fakeMetrics) MovementRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

// failingStockRunner hace fallar UpdateStock después de que el evento ya fue agregado.
type failingStockRunner struct{ inner inventory.TxRunner }

func (r failingStockRunner) Run(ctx context.Context, fn func(repository.ItemRepository, repository.MovementRepository) error) error {
	return r.inner.Run(ctx, func(items repository.ItemRepository, movs repository.MovementRepository) error {
		return fn(failingItems{items}, movs)
	})
}

type failingItems struct{ repository.ItemRepository }

func (failingItems) UpdateStock(context.Context, entity.ItemType, string, decimal.Decimal, time.Time) error {
	return domain.StorageError("actualizar stock", errors.New("disco lleno"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EscenarioCompleto(t *testing.T) {
	e := newEngine(t)
	mat := e.material(t, "Aceite de oliva")
	e.forceStock(t, mat.ID, "10")

	res, err := e.record(mat.ID, entity.ActionOut, "3")
	require.NoError(t, err)
	assert.Equal(t, "7", res.NewStock.String())
	assert.Equal(t, "10", res.Movement.OldStock.String())

	_, err = e.record(mat.ID, entity.ActionOut, "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "7", e.stock(t, mat.ID).String(), "el rechazo no modifica el stock")

	res, err = e.record(mat.ID, entity.ActionAdjust, "20")
	require.NoError(t, err)
	assert.Equal(t, "20", res.NewStock.String())

	res, err = e.record(mat.ID, entity.ActionIn, "5")
	require.NoError(t, err)
	assert.Equal(t, "25", res.NewStock.String())

	events := e.events(t, mat.ID)
	require.Len(t, events, 3, "el intento rechazado no deja evento")
	assert.Equal(t, []entity.ActionType{entity.ActionOut, entity.ActionAdjust, entity.ActionIn},
		[]entity.ActionType{events[0].ActionType, events[1].ActionType, events[2].ActionType})
	assert.Less(t, events[0].Seq, events[1].Seq)
	assert.Less(t, events[1].Seq, events[2].Seq)
	assert.Equal(t, "operador", events[2].CreatedBy)

	assert.Equal(t, 1, e.metrics.recorded["out"])
	assert.Equal(t, 1, e.metrics.recorded["adj"])
	assert.Equal(t, 1, e.metrics.recorded["in"])
	assert.Equal(t, 1, e.metrics.rejected["insufficient_stock"])
}

func TestRecordMovement_SalidaExactaDejaCero(t *testing.T) {
	e := newEngine(t)
	mat := e.material(t, "Hidróxido de sodio")
	_, err := e.record(mat.ID, entity.ActionIn, "2.5")
	require.NoError(t, err)

	res, err := e.record(mat.ID, entity.ActionOut, "2.5")
	require.NoError(t, err)
	assert.True(t, res.NewStock.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y errores
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaInvalidaNoDejaRastro(t *testing.T) {
	e := newEngine(t)
	mat := e.material(t, "Aceite de coco")

	tests := []struct {
		name  string
		input inventory.MovementInputDTO
	}{
		{"entrada cero", inventory.MovementInputDTO{ItemID: mat.ID, ItemType: entity.ItemTypeMaterial, ActionType: entity.ActionIn, ChangeAmount: d("0")}},
		{"salida negativa", inventory.MovementInputDTO{ItemID: mat.ID, ItemType: entity.ItemTypeMaterial, ActionType: entity.ActionOut, ChangeAmount: d("-1")}},
		{"ajuste negativo", inventory.MovementInputDTO{ItemID: mat.ID, ItemType: entity.ItemTypeMaterial, ActionType: entity.ActionAdjust, ChangeAmount: d("-1")}},
		{"acción desconocida", inventory.MovementInputDTO{ItemID: mat.ID, ItemType: entity.ItemTypeMaterial, ActionType: "transfer", ChangeAmount: d("1")}},
		{"tipo desconocido", inventory.MovementInputDTO{ItemID: mat.ID, ItemType: "tool", ActionType: entity.ActionIn, ChangeAmount: d("1")}},
		{"id vacío", inventory.MovementInputDTO{ItemID: "  ", ItemType: entity.ItemTypeMaterial, ActionType: entity.ActionIn, ChangeAmount: d("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.recorder.RecordMovement(context.Background(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	assert.Empty(t, e.events(t, mat.ID))
	assert.True(t, e.stock(t, mat.ID).IsZero())
	assert.Equal(t, len(tests), e.metrics.rejected["validation"])
}

func TestRecordMovement_ItemInexistenteOEliminado(t *testing.T) {
	e := newEngine(t)
	_, err := e.record("no-existe", entity.ActionIn, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mat := e.material(t, "Cera de abejas")
	_, err = e.record(mat.ID, entity.ActionIn, "4")
	require.NoError(t, err)
	require.NoError(t, e.items.Delete(context.Background(), entity.ItemTypeMaterial, mat.ID))

	_, err = e.record(mat.ID, entity.ActionIn, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, e.events(t, mat.ID), 1, "la historia del ítem eliminado se conserva")
}

func TestRecordMovement_TipoEquivocadoEsNoEncontrado(t *testing.T) {
	e := newEngine(t)
	mat := e.material(t, "Glicerina")
	_, err := e.recorder.RecordMovement(context.Background(), inventory.MovementInputDTO{
		ItemID: mat.ID, ItemType: entity.ItemTypeProduct, ActionType: entity.ActionIn, ChangeAmount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_FallaDeAlmacenamientoRevierteTodo(t *testing.T) {
	store := memory.New()
	items := usecase.NewItemUseCase(store.Items())
	mat, err := items.Create(context.Background(), entity.ItemTypeMaterial, dto.CreateItemRequest{Name: "Manteca de karité", Unit: "g"})
	require.NoError(t, err)

	recorder := inventory.NewRecordMovementUseCase(failingStockRunner{inner: store}, nil)
	_, err = recorder.RecordMovement(context.Background(), inventory.MovementInputDTO{
		ItemID: mat.ID, ItemType: entity.ItemTypeMaterial, ActionType: entity.ActionIn, ChangeAmount: d("5"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "disco lleno")

	list, err := store.Movements().ListByItem(context.Background(), entity.ItemTypeMaterial, mat.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "el evento se revierte junto con el stock")
	got, err := store.Items().GetByID(context.Background(), entity.ItemTypeMaterial, mat.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.IsZero())
}

func TestRecordMovement_ContextoCancelado(t *testing.T) {
	e := newEngine(t)
	mat := e.material(t, "Sal marina")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.recorder.RecordMovement(ctx, inventory.MovementInputDTO{
		ItemID: mat.ID, ItemType: entity.ItemTypeMaterial, ActionType: entity.ActionIn, ChangeAmount: d("1"),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, e.events(t, mat.ID))
}

func TestRecordMovementFromRequest(t *testing.T) {
	e := newEngine(t)
	mat := e.material(t, "Arcilla verde")

	out, err := e.recorder.RecordMovementFromRequest(context.Background(), "user-1", dto.RecordMovementRequest{
		ItemID: mat.ID, ItemType: "materials", ActionType: "in", ChangeAmount: d("12"), RelatedBatch: " L-01 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "12", out.NewStock.String())
	assert.Equal(t, "L-01", out.Movement.RelatedBatch)
	assert.Equal(t, "user-1", out.Movement.CreatedBy)
	assert.Equal(t, "material", out.Movement.ItemType)

	_, err = e.recorder.RecordMovementFromRequest(context.Background(), "", dto.RecordMovementRequest{
		ItemID: mat.ID, ItemType: "herramienta", ActionType: "in", ChangeAmount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "validation", inventory.RejectReason(domain.Invalid("x")))
	assert.Equal(t, "not_found", inventory.RejectReason(domain.ErrNotFound))
	assert.Equal(t, "insufficient_stock", inventory.RejectReason(domain.ErrInsufficientStock))
	assert.Equal(t, "storage", inventory.RejectReason(domain.StorageError("op", errors.New("io"))))
	assert.Equal(t, "canceled", inventory.RejectReason(context.Canceled))
	assert.Equal(t, "internal", inventory.RejectReason(errors.New("otro")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Muchas salidas concurrentes sobre el mismo ítem nunca sobregiran: exactamente
// floor(100/3) tienen éxito y el resto recibe ErrInsufficientStock.
func TestRecordMovement_ConcurrenciaNoSobregira(t *testing.T) {
	e := newEngine(t)
	mat := e.material(t, "Aceite de ricino")
	_, err := e.record(mat.ID, entity.ActionAdjust, "100")
	require.NoError(t, err)

	var ok, insufficient int32
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := e.record(mat.ID, entity.ActionOut, "3")
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt32(&insufficient, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(33), ok)
	assert.Equal(t, int32(17), insufficient)
	assert.Equal(t, "1", e.stock(t, mat.ID).String())
	assert.Len(t, e.events(t, mat.ID), 34)

	report, err := e.verifier.VerifyItem(context.Background(), entity.ItemTypeMaterial, mat.ID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestRecordMovement_ItemsDistintosEnParalelo(t *testing.T) {
	e := newEngine(t)
	a := e.material(t, "Aceite de almendras")
	b := e.material(t, "Aceite de jojoba")

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 20; i++ {
		for _, id := range []string{a.ID, b.ID} {
			g.Go(func() error {
				_, err := e.record(id, entity.ActionIn, "1.5")
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, "30", e.stock(t, a.ID).String())
	assert.Equal(t, "30", e.stock(t, b.ID).String())
	assert.Equal(t, 0, e.locker.Len())
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad: el stock cacheado siempre es la reproducción del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_StockIgualAReproduccion(t *testing.T) {
	faker := gofakeit.New(42)
	e := newEngine(t)
	actions := []string{"in", "out", "adj"}

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, e.material(t, faker.ProductName()).ID)
	}

	for i := 0; i < 300; i++ {
		id := ids[faker.Number(0, len(ids)-1)]
		action := entity.ActionType(faker.RandomString(actions))
		amount := decimal.NewFromInt(int64(faker.Number(1, 40))).Shift(-1)
		_, err := e.record(id, action, amount.String())
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock, "solo se esperan rechazos por sobregiro")
		}
	}

	for _, id := range ids {
		report, err := e.verifier.VerifyItem(context.Background(), entity.ItemTypeMaterial, id)
		require.NoError(t, err)
		assert.True(t, report.Consistent, "item %s: cache %s, replay %s", id, report.Cached, report.Replayed)
		assert.False(t, report.Cached.IsNegative())
	}
	inconsistent, err := e.verifier.VerifyAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, inconsistent)
}
