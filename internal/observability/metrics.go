package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type serverMetrics struct {
	registry *prometheus.Registry

	inferenceTotal    *prometheus.CounterVec
	inferenceDuration prometheus.Histogram
	connectedClients  prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *serverMetrics
)

func getMetrics() *serverMetrics {
	metricsOnce.Do(func() {
		registry := prometheus.NewRegistry()
		m := &serverMetrics{
			registry: registry,
			inferenceTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "policy_inference_requests_total",
					Help: "Total number of inference requests by status.",
				},
				[]string{"status"},
			),
			inferenceDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "policy_inference_duration_seconds",
					Help:    "Duration of inference requests in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			connectedClients: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "policy_connected_clients",
					Help: "Number of currently connected policy clients.",
				},
			),
		}
		registry.MustRegister(m.inferenceTotal, m.inferenceDuration, m.connectedClients)
		metricsInst = m
	})
	return metricsInst
}

// MetricsHandler returns the HTTP handler exposing server metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(getMetrics().registry, promhttp.HandlerOpts{})
}

// ObserveInference records one inference request and its duration.
func ObserveInference(status string, d time.Duration) {
	m := getMetrics()
	m.inferenceTotal.WithLabelValues(status).Inc()
	m.inferenceDuration.Observe(d.Seconds())
}

// ClientConnected increments the connected clients gauge.
func ClientConnected() {
	getMetrics().connectedClients.Inc()
}

// ClientDisconnected decrements the connected clients gauge.
func ClientDisconnected() {
	getMetrics().connectedClients.Dec()
}
