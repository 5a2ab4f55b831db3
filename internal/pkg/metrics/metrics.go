package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survivetrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "survivetrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "survivetrack",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// ARIA metrics
	ARIAResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survivetrack",
		Subsystem: "aria",
		Name:      "responses_total",
		Help:      "ARIA responses by source (live, cache, offline)",
	}, []string{"source"})

	ARIALiveErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survivetrack",
		Subsystem: "aria",
		Name:      "live_errors_total",
		Help:      "Live text-generation calls that failed and fell back to canned text",
	}, []string{"model"})

	ARIALiveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "survivetrack",
		Subsystem: "aria",
		Name:      "live_duration_seconds",
		Help:      "Latency of live text-generation calls",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"model"})

	// Map & emergency metrics
	MapsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survivetrack",
		Subsystem: "map",
		Name:      "rendered_total",
		Help:      "Maps rendered by kind and renderer",
	}, []string{"kind", "renderer"})

	SOSSignals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survivetrack",
		Subsystem: "sos",
		Name:      "signals_total",
		Help:      "Distress signals raised or scanned",
	}, []string{"priority"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "survivetrack",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survivetrack",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survivetrack",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
