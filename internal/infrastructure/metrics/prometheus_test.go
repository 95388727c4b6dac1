package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
)

func TestMovementMetrics_ContadoresYHandler(t *testing.T) {
	reg := metrics.NewRegistry()
	m := metrics.NewMovementMetrics(reg)

	m.MovementRecorded("in", 2*time.Millisecond)
	m.MovementRecorded("in", time.Millisecond)
	m.MovementRecorded("out", time.Millisecond)
	m.MovementRejected("insufficient_stock")

	count, err := testutil.GatherAndCount(reg, "inventario_movements_recorded_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "una serie por acción")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `inventario_movements_recorded_total{action="in"} 2`)
	assert.Contains(t, string(body), `inventario_movements_rejected_total{reason="insufficient_stock"} 1`)
	assert.Contains(t, string(body), "inventario_movement_duration_seconds_bucket")
}
