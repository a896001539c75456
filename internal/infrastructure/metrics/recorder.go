package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/Produccion-api/internal/application/ports"
)

const namespace = "produccion"

var _ ports.Recorder = (*Recorder)(nil)

// Recorder métricas de negocio y HTTP sobre un registry propio.
type Recorder struct {
	registry    *prometheus.Registry
	movements   *prometheus.CounterVec
	reversals   *prometheus.CounterVec
	productions *prometheus.CounterVec
	validations *prometheus.CounterVec
	transfers   *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// NewRecorder registra los colectores. withRuntime agrega métricas de Go y del proceso.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_total",
			Help:      "Movimientos registrados por tipo de recurso y tipo de movimiento.",
		}, []string{"resource_kind", "type"}),
		reversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reversals_total",
			Help:      "Reversiones ejecutadas por estrategia.",
		}, []string{"strategy"}),
		productions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "production_transitions_total",
			Help:      "Transiciones de estado de producciones.",
		}, []string{"origin", "state"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Operaciones rechazadas por validación o stock insuficiente.",
		}, []string{"operation"}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Transferencias a sucursales y sus reversiones.",
		}, []string{"reverted"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(r.movements, r.reversals, r.productions, r.validations, r.transfers, r.requests)
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Registry expone el registry para el handler /metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) MovementRecorded(kind, movementType string) {
	r.movements.WithLabelValues(kind, movementType).Inc()
}

func (r *Recorder) ReversalExecuted(strategy string) {
	r.reversals.WithLabelValues(strategy).Inc()
}

func (r *Recorder) ProductionTransition(origin, state string) {
	r.productions.WithLabelValues(origin, state).Inc()
}

func (r *Recorder) ValidationFailed(operation string) {
	r.validations.WithLabelValues(operation).Inc()
}

func (r *Recorder) TransferRecorded(reverted bool) {
	r.transfers.WithLabelValues(strconv.FormatBool(reverted)).Inc()
}

// ObserveRequest registra la duración de una request HTTP. route es el patrón, no la URL.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
