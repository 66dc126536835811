package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies per route pattern.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

// Observe records one finished request.
func (h *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	route = normalizeLabel(route)
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ImageMetrics counts product image operations against the asset store.
type ImageMetrics struct {
	operations    *prometheus.CounterVec
	compensations *prometheus.CounterVec
}

func NewImageMetrics(reg prometheus.Registerer) *ImageMetrics {
	if reg == nil {
		return &ImageMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "product_image_operations_total",
		Help: "Product image uploads and deletes by outcome.",
	}, []string{"op", "outcome"})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "product_image_compensations_total",
		Help: "Uploaded images removed again because the product write failed.",
	}, []string{"op"})
	reg.MustRegister(operations, compensations)
	return &ImageMetrics{operations: operations, compensations: compensations}
}

// Record counts an upload or delete; err decides the outcome label.
func (m *ImageMetrics) Record(op string, err error) {
	if m == nil || m.operations == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.operations.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

func (m *ImageMetrics) IncCompensation(op string) {
	if m == nil || m.compensations == nil {
		return
	}
	m.compensations.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
