package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "forum_auth"

// Metrics owns a registry per server so that independent servers (and tests)
// never collide on registration.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"path", "method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "Request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "auth_events_total",
				Help:      "Authentication operations by outcome",
			},
			[]string{"event", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.authEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records count and latency per route. label maps a request to a
// bounded path label.
func (m *Metrics) Middleware(label func(*http.Request) string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next(rec, r)

			path := label(r)
			m.requests.WithLabelValues(path, r.Method, strconv.Itoa(rec.status)).Inc()
			m.duration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		}
	}
}

// AuthEvent counts one auth operation, e.g. ("login", "success")
func (m *Metrics) AuthEvent(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = outcomeFor(err)
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}
