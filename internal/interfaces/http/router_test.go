package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/export"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
)

func newServer(t *testing.T, jwtSecret string) *fiber.App {
	t.Helper()
	store := memory.New()
	locker := inventory.NewKeyedLocker()
	reg := metrics.NewRegistry()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:        "inventario-test",
		ItemUC:         usecase.NewItemUseCase(store.Items()),
		RecordMovement: inventory.NewRecordMovementUseCase(store, locker, inventory.WithMetrics(metrics.NewMovementMetrics(reg))),
		LedgerQuery:    inventory.NewLedgerQueryUseCase(store.Movements(), nil),
		LedgerVerify:   inventory.NewLedgerVerifyUseCase(store.Items(), store.Movements(), locker),
		DashboardUC:    appanalytics.NewDashboardUseCase(store.Items(), store.Movements()),
		ReportUC: report.NewUseCase(store.Items(), store.Movements(),
			export.NewExcelExporter(), pdf.NewMarotoPDFGenerator(), "Inventario test"),
		Metrics:   metrics.Handler(reg),
		JWTSecret: jwtSecret,
	})
	return app
}

// call ejecuta la petición y decodifica el cuerpo JSON (si lo hay) en out.
func call(t *testing.T, app *fiber.App, method, path string, body any, out any, headers ...string) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createMaterial(t *testing.T, app *fiber.App, name, alert string) string {
	t.Helper()
	var item map[string]any
	status := call(t, app, http.MethodPost, "/api/items/materials",
		map[string]any{"name": name, "unit": "kg", "category": "aceites", "low_stock_alert": alert}, &item)
	require.Equal(t, http.StatusCreated, status)
	return item["id"].(string)
}

func move(t *testing.T, app *fiber.App, id, action, amount string, out any) int {
	t.Helper()
	return call(t, app, http.MethodPost, "/api/movements", map[string]any{
		"item_id": id, "item_type": "material", "action_type": action, "change_amount": amount,
	}, out)
}

func TestHealth(t *testing.T) {
	app := newServer(t, "")
	var body map[string]string
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "inventario-test", body["service"])
}

func TestFlujoCompletoDeMovimientos(t *testing.T) {
	app := newServer(t, "")
	id := createMaterial(t, app, "Aceite de oliva", "5")

	var res map[string]any
	require.Equal(t, http.StatusCreated, move(t, app, id, "adj", "10", &res))
	assert.Equal(t, "10", res["new_stock"])

	require.Equal(t, http.StatusCreated, move(t, app, id, "out", "7", &res))
	assert.Equal(t, "3", res["new_stock"])
	mov := res["movement"].(map[string]any)
	assert.Equal(t, "10", mov["old_stock"])
	assert.Equal(t, "out", mov["action_type"])

	var low struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/items/materials/low-stock", nil, &low))
	require.Equal(t, 1, low.Total)
	assert.Equal(t, id, low.Items[0]["id"])

	var errBody map[string]string
	assert.Equal(t, http.StatusConflict, move(t, app, id, "out", "10", &errBody))
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody["code"])

	require.Equal(t, http.StatusCreated, move(t, app, id, "adj", "20", &res))
	require.Equal(t, http.StatusCreated, move(t, app, id, "in", "5", &res))
	assert.Equal(t, "25", res["new_stock"])

	var item map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/items/materials/"+id, nil, &item))
	assert.Equal(t, "25", item["current_stock"])
	assert.Equal(t, false, item["is_low"])

	var list struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/movements?item_id="+id, nil, &list))
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, "in", list.Items[0]["action_type"], "más reciente primero")

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/movements/recent?limit=2", nil, &list))
	assert.Equal(t, 2, list.Total)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/movements?today=true&item_type=material", nil, &list))
	assert.Equal(t, 4, list.Total)

	var verify struct {
		Total int `json:"total"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/ledger/verify", nil, &verify))
	assert.Equal(t, 0, verify.Total, "el stock cacheado coincide con el ledger")

	var report map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/ledger/verify/materials/"+id, nil, &report))
	assert.Equal(t, true, report["consistent"])
	assert.EqualValues(t, 4, report["events"])
}

func TestMapeoDeErrores(t *testing.T) {
	app := newServer(t, "")
	id := createMaterial(t, app, "Aceite de coco", "1")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"tipo desconocido", http.MethodGet, "/api/items/tools", nil, http.StatusBadRequest, "VALIDATION"},
		{"ítem inexistente", http.MethodGet, "/api/items/materials/nope", nil, http.StatusNotFound, "NOT_FOUND"},
		{"nombre vacío", http.MethodPost, "/api/items/products", map[string]any{"name": " ", "unit": "u"}, http.StatusBadRequest, "VALIDATION"},
		{"patch con stock", http.MethodPatch, "/api/items/materials/" + id, map[string]any{"current_stock": "5"}, http.StatusBadRequest, "VALIDATION"},
		{"patch cambia unidad", http.MethodPatch, "/api/items/materials/" + id, map[string]any{"unit": "g"}, http.StatusBadRequest, "VALIDATION"},
		{"acción desconocida", http.MethodPost, "/api/movements",
			map[string]any{"item_id": id, "item_type": "material", "action_type": "move", "change_amount": "1"}, http.StatusBadRequest, "VALIDATION"},
		{"cantidad cero", http.MethodPost, "/api/movements",
			map[string]any{"item_id": id, "item_type": "material", "action_type": "in", "change_amount": "0"}, http.StatusBadRequest, "VALIDATION"},
		{"movimiento a ítem inexistente", http.MethodPost, "/api/movements",
			map[string]any{"item_id": "nope", "item_type": "material", "action_type": "in", "change_amount": "1"}, http.StatusNotFound, "NOT_FOUND"},
		{"fecha inválida", http.MethodGet, "/api/movements?from=ayer", nil, http.StatusBadRequest, "VALIDATION"},
		{"límite inválido", http.MethodGet, "/api/movements/recent?limit=0", nil, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			assert.Equal(t, tt.status, call(t, app, tt.method, tt.path, tt.body, &body))
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestItems_ActualizarContarYBaja(t *testing.T) {
	app := newServer(t, "")
	id := createMaterial(t, app, "Soda cáustica", "2")
	createMaterial(t, app, "Glicerina", "1")

	var item map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPatch, "/api/items/materials/"+id,
		map[string]any{"name": "Hidróxido de sodio", "unit": "kg", "low_stock_alert": nil}, &item))
	assert.Equal(t, "Hidróxido de sodio", item["name"])
	assert.Nil(t, item["low_stock_alert"])

	var count map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/items/materials/count", nil, &count))
	assert.EqualValues(t, 2, count["count"])

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/items/materials/"+id, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodDelete, "/api/items/materials/"+id, nil, nil))

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/items/materials/count", nil, &count))
	assert.EqualValues(t, 1, count["count"])

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, move(t, app, id, "in", "1", &errBody), "un ítem dado de baja no acepta movimientos")
}

func TestDashboardYReportes(t *testing.T) {
	app := newServer(t, "")
	id := createMaterial(t, app, "Aceite de lavanda", "50")
	require.Equal(t, http.StatusCreated, move(t, app, id, "in", "20", nil))

	var summary map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/dashboard/summary", nil, &summary))
	assert.EqualValues(t, 1, summary["material_count"])
	assert.EqualValues(t, 0, summary["product_count"])
	assert.Len(t, summary["low_stock"], 1)
	assert.Len(t, summary["recent_movements"], 1)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/export.xlsx", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "un xlsx es un zip")

	req = httptest.NewRequest(http.MethodGet, "/api/reports/low-stock.pdf", nil)
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "application/pdf", resp2.Header.Get("Content-Type"))
	data, err = io.ReadAll(resp2.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestMetrics_ExponeContadores(t *testing.T) {
	app := newServer(t, "")
	id := createMaterial(t, app, "Aceite de ricino", "1")
	require.Equal(t, http.StatusCreated, move(t, app, id, "in", "2", nil))
	require.Equal(t, http.StatusConflict, move(t, app, id, "out", "5", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `inventario_movements_recorded_total{action="in"} 1`)
	assert.Contains(t, string(raw), `inventario_movements_rejected_total{reason="insufficient_stock"} 1`)
}

func TestConJWT_RegistraOperadorYRestringeBajas(t *testing.T) {
	app := newServer(t, testJWTSecret)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/items/materials", nil, nil))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", nil, nil), "health es público")

	bodeguero := tokenForRole(t, apphttp.RoleBodeguero)
	var item map[string]any
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/items/materials",
		map[string]any{"name": "Cera de abejas", "unit": "kg"}, &item, "Authorization", bodeguero))
	id := item["id"].(string)

	var res map[string]any
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/movements",
		map[string]any{"item_id": id, "item_type": "material", "action_type": "in", "change_amount": "4"},
		&res, "Authorization", bodeguero))
	assert.Equal(t, testUserID, res["movement"].(map[string]any)["created_by"])

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodDelete, "/api/items/materials/"+id, nil, nil, "Authorization", bodeguero))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/ledger/verify", nil, nil, "Authorization", bodeguero))

	admin := tokenForRole(t, apphttp.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/items/materials/"+id, nil, nil, "Authorization", admin))
}
