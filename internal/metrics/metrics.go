package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Checkouts *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewServerMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewServerMetrics(reg *prometheus.Registry) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})

	reg.MustRegister(requests, latency, checkouts)

	return &ServerMetrics{
		Requests:  requests,
		LatencyMS: latency,
		Checkouts: checkouts,
		gatherer:  reg,
	}
}

func (m *ServerMetrics) ObserveCheckout(outcome string) {
	m.Checkouts.WithLabelValues(outcome).Inc()
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
