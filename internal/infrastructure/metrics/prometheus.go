// Package metrics implementa el puerto de métricas del motor de movimientos con Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

const namespace = "inventario"

var _ inventory.MovementMetrics = (*MovementMetrics)(nil)

// MovementMetrics contadores por acción y por motivo de rechazo, y latencia de la mutación.
type MovementMetrics struct {
	recorded *prometheus.CounterVec
	rejected *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewRegistry registro propio con los colectores de proceso y runtime.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewMovementMetrics crea y registra las series en reg.
func NewMovementMetrics(reg prometheus.Registerer) *MovementMetrics {
	m := &MovementMetrics{
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_recorded_total",
			Help:      "Movimientos registrados por tipo de acción.",
		}, []string{"action"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Movimientos rechazados por motivo.",
		}, []string{"reason"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "movement_duration_seconds",
			Help:      "Duración de una mutación de stock exitosa.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"action"}),
	}
	reg.MustRegister(m.recorded, m.rejected, m.latency)
	return m
}

func (m *MovementMetrics) MovementRecorded(action string, elapsed time.Duration) {
	m.recorded.WithLabelValues(action).Inc()
	m.latency.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *MovementMetrics) MovementRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// Handler expone el registro en formato de texto de Prometheus.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
