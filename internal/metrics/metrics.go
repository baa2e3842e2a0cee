// Package metrics owns the workbench Prometheus registry: production event
// counters, surfaced error counters, build info, and the Go and process
// collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "workbench"

// Production event types.
const (
	EventLogIn             = "log_in"
	EventLogOut            = "log_out"
	EventCreateUnit        = "create_unit"
	EventCompleteOperation = "complete_operation"
	EventCompleteUnit      = "complete_unit"
	EventGeneratePassport  = "generate_passport"
)

// Registry holds the collectors of one workbench process.
type Registry struct {
	reg *prometheus.Registry

	productionEvents *prometheus.CounterVec
	errors           *prometheus.CounterVec
	buildInfo        *prometheus.GaugeVec
}

// New builds a registry and records version in the build info gauge.
func New(version string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	r := &Registry{
		reg: reg,
		productionEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "production_events_total",
			Help:      "Production events recorded at the workbench",
		}, []string{"event_type", "employee_name", "unit_id", "unit_type"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors surfaced to workbench callers by kind",
		}, []string{"kind"}),
		buildInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information of the running daemon",
		}, []string{"version"}),
	}
	r.buildInfo.WithLabelValues(version).Set(1)
	return r
}

// ProductionEvent counts one production event.
func (r *Registry) ProductionEvent(eventType, employeeName, unitID, unitType string) {
	r.productionEvents.WithLabelValues(eventType, employeeName, unitID, unitType).Inc()
}

// Error counts one error of the given kind.
func (r *Registry) Error(kind string) {
	if kind == "" {
		return
	}
	r.errors.WithLabelValues(kind).Inc()
}

// Prometheus exposes the underlying registry for health checks and tests.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
