// seed aplica las migraciones del backend configurado y carga el catálogo de demostración
// (cuatro materias primas y cuatro productos) si el registro está vacío.
//
// Uso: go run ./cmd/seed [-verify]
// Con -verify, después de sembrar reproduce el ledger de todos los ítems y
// termina con código 1 si algún stock cacheado no coincide.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/storage"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	verify := flag.Bool("verify", false, "verificar el ledger completo después de sembrar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.Close()

	locker := inventory.NewKeyedLocker()
	items := usecase.NewItemUseCase(store.Items)
	recorder := inventory.NewRecordMovementUseCase(store.Tx, locker, inventory.WithLogger(log.Component("movements")))

	seeded, err := inventory.SeedDemoData(ctx, items, recorder, log.Component("seed"))
	if err != nil {
		log.Fatal().Err(err).Msg("cargar datos de demostración")
	}
	if !seeded {
		log.Info().Msg("el registro ya tiene ítems, no se sembró nada")
	}

	if !*verify {
		return
	}
	broken, err := inventory.NewLedgerVerifyUseCase(store.Items, store.Movements, locker).VerifyAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("verificar ledger")
	}
	for _, r := range broken {
		log.Error().
			Str("item_type", r.ItemType).
			Str("item_id", r.ItemID).
			Str("cached", r.Cached.String()).
			Str("replayed", r.Replayed.String()).
			Str("detail", r.Error).
			Msg("stock cacheado inconsistente con el ledger")
	}
	if len(broken) > 0 {
		store.Close()
		os.Exit(1)
	}
	log.Info().Msg("ledger consistente")
}
