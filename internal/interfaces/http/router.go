package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	ItemUC         *usecase.ItemUseCase
	RecordMovement *inventory.RecordMovementUseCase
	LedgerQuery    *inventory.LedgerQueryUseCase
	LedgerVerify   *inventory.LedgerVerifyUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	ReportUC       *report.UseCase
	Metrics        nethttp.Handler // nil desactiva /metrics
	JWTSecret      string          // vacío desactiva la autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Con JWT_SECRET las rutas requieren Bearer Token; baja de ítems y verificación solo admin.
	protected := api
	var adminOnly []fiber.Handler
	if deps.JWTSecret != "" {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
		adminOnly = append(adminOnly, RequireRole(RoleAdmin))
	}

	// Items: las rutas fijas van antes de /:id
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/:type/count", itemHandler.Count)
	items.Get("/:type/low-stock", itemHandler.ListLowStock)
	items.Post("/:type", itemHandler.Create)
	items.Get("/:type", itemHandler.List)
	items.Get("/:type/:id", itemHandler.GetByID)
	items.Patch("/:type/:id", itemHandler.Update)
	items.Delete("/:type/:id", append(adminOnly, itemHandler.Delete)...)

	// Movimientos
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.LedgerQuery)
	movements.Get("/recent", movementHandler.Recent)
	movements.Post("/", movementHandler.Record)
	movements.Get("/", movementHandler.List)

	// Verificación del ledger
	ledger := protected.Group("/ledger", adminOnly...)
	ledgerHandler := NewLedgerHandler(deps.LedgerVerify)
	ledger.Get("/verify", ledgerHandler.VerifyAll)
	ledger.Get("/verify/:type/:id", ledgerHandler.VerifyItem)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/export.xlsx", reportHandler.ExportXLSX)
	reports.Get("/low-stock.pdf", reportHandler.LowStockPDF)
}
