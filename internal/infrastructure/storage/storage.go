// Package storage abre el backend de persistencia configurado (SQLite, PostgreSQL o memoria)
// y aplica sus migraciones.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/migrations"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// Storage agrupa los puertos de persistencia del backend elegido.
type Storage struct {
	Tx        inventory.TxRunner
	Items     repository.ItemRepository
	Movements repository.MovementRepository
	close     func()
}

// Close libera las conexiones del backend.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open abre el backend de cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		s := memory.New()
		return &Storage{Tx: s, Items: s.Items(), Movements: s.Movements()}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		db := postgres.OpenDB(pool)
		if err := migrations.UpPostgres(ctx, db, log); err != nil {
			_ = db.Close()
			pool.Close()
			return nil, err
		}
		return &Storage{
			Tx:        postgres.NewTxRunner(pool),
			Items:     postgres.NewItemRepository(pool),
			Movements: postgres.NewMovementRepository(pool),
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("abrir SQLite %s: %w", cfg.Store.SQLitePath, err)
		}
		if err := migrations.UpSQLite(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Storage{
			Tx:        sqlite.NewTxRunner(db),
			Items:     sqlite.NewItemRepository(db),
			Movements: sqlite.NewMovementRepository(db),
			close:     func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}
}
