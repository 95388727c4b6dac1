package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/export"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.Close()

	locker := inventory.NewKeyedLocker()
	opts := []inventory.Option{inventory.WithLogger(log.Component("movements"))}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := metrics.NewRegistry()
		opts = append(opts, inventory.WithMetrics(metrics.NewMovementMetrics(reg)))
		metricsHandler = metrics.Handler(reg)
	}

	itemUC := usecase.NewItemUseCase(store.Items)
	recordMovementUC := inventory.NewRecordMovementUseCase(store.Tx, locker, opts...)
	ledgerQueryUC := inventory.NewLedgerQueryUseCase(store.Movements, nil)
	ledgerVerifyUC := inventory.NewLedgerVerifyUseCase(store.Items, store.Movements, locker)
	dashboardUC := appanalytics.NewDashboardUseCase(store.Items, store.Movements)
	reportUC := report.NewUseCase(store.Items, store.Movements,
		export.NewExcelExporter(), infrapdf.NewMarotoPDFGenerator(), cfg.App.Name)

	if cfg.App.SeedDemo {
		if _, err := inventory.SeedDemoData(ctx, itemUC, recordMovementUC, log.Component("seed")); err != nil {
			log.Fatal().Err(err).Msg("cargar datos de demostración")
		}
	}

	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: la API queda sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		ItemUC:         itemUC,
		RecordMovement: recordMovementUC,
		LedgerQuery:    ledgerQueryUC,
		LedgerVerify:   ledgerVerifyUC,
		DashboardUC:    dashboardUC,
		ReportUC:       reportUC,
		Metrics:        metricsHandler,
		JWTSecret:      cfg.JWT.Secret,
	})

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}

	log.Info().Msg("aplicación detenida")
}
