// Package metrics exposes computation unit metrics for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plancharts"

// Outcome labels for the requests counter.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomePanic = "panic"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests handled by computation units.",
		}, []string{"domain", "action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Time spent handling one request inside a unit.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"domain"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_units",
			Help:      "Computation units currently running.",
		}, []string{"domain"}),
	}
	reg.MustRegister(m.requests, m.duration, m.active)
	return m
}

// WithRuntime adds the Go runtime and process collectors, for binaries.
func (m *Metrics) WithRuntime() *Metrics {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(domain, action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(domain, action, outcome).Inc()
	m.duration.WithLabelValues(domain).Observe(elapsed.Seconds())
}

func (m *Metrics) UnitStarted(domain string) {
	if m == nil {
		return
	}
	m.active.WithLabelValues(domain).Inc()
}

func (m *Metrics) UnitStopped(domain string) {
	if m == nil {
		return
	}
	m.active.WithLabelValues(domain).Dec()
}
