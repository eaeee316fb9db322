package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "solarmon_"

type metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	snapshots      prometheus.Gauge
	decodeFailures prometheus.Counter
	storageErrors  *prometheus.CounterVec
}

// newMetrics uses its own registry so that every Server, including the ones
// built in tests, can register the same names.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		snapshots: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "snapshots",
				Help: "Number of snapshots decoded by the last full load",
			},
		),
		decodeFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_decode_failures_total",
				Help: "Total stored snapshots that could not be decoded",
			},
		),
		storageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "storage_errors_total",
				Help: "Total storage errors by operation",
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.latency,
		m.snapshots,
		m.decodeFailures,
		m.storageErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// instrument records the request count and latency of h under route.
func (m *metrics) instrument(route string, h http.Handler) http.Handler {
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerDuration(
		m.latency.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels), h),
	)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
