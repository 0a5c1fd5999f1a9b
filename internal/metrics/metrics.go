// Package metrics exposes verification and API counters in the Prometheus
// text format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roominglist_verifier"

type Metrics struct {
	registry *prometheus.Registry

	scenarios        *prometheus.CounterVec
	discrepancies    *prometheus.CounterVec
	scenarioDuration *prometheus.HistogramVec
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	filterSessions   prometheus.Gauge
}

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Verification scenarios run, by outcome.",
		}, []string{"scenario", "outcome"}),
		discrepancies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discrepancies_total",
			Help:      "Discrepancies found between expected and rendered dashboard state.",
		}, []string{"scenario"}),
		scenarioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Wall time of one verification scenario.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"scenario"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests, by route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		filterSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_sessions",
			Help:      "Open filter sessions.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.scenarios,
		m.discrepancies,
		m.scenarioDuration,
		m.requests,
		m.requestDuration,
		m.filterSessions,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ScenarioFinished records one verification scenario.
func (m *Metrics) ScenarioFinished(scenario string, discrepancies int, err error, elapsed time.Duration) {
	outcome := "passed"
	switch {
	case err != nil:
		outcome = "error"
	case discrepancies > 0:
		outcome = "failed"
	}
	m.scenarios.WithLabelValues(scenario, outcome).Inc()
	m.discrepancies.WithLabelValues(scenario).Add(float64(discrepancies))
	m.scenarioDuration.WithLabelValues(scenario).Observe(elapsed.Seconds())
}

func (m *Metrics) SessionOpened() { m.filterSessions.Inc() }

func (m *Metrics) SessionClosed() { m.filterSessions.Dec() }

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by their route template, so ids do not explode
// label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
