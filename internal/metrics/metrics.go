package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salescope_build_info",
			Help: "Build information of salescope",
		},
		[]string{"version"},
	)

	// Inference metrics
	RoleDetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salescope_role_detections_total",
			Help: "Total number of role detection attempts by outcome",
		},
		[]string{"role", "found"}, // found: "true", "false"
	)

	SyntheticRevenueTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salescope_synthetic_revenue_total",
			Help: "Total number of tables whose revenue was derived from price x quantity",
		},
	)

	// Engine metrics
	SeriesCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salescope_series_cache_requests_total",
			Help: "Total number of time-series cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	AnalyzeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salescope_analyze_duration_seconds",
			Help:    "Duration of a full report computation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)

	AnalyzedRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salescope_analyzed_rows",
			Help:    "Number of rows per analyzed table",
			Buckets: prometheus.ExponentialBuckets(10, 4, 10),
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salescope_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salescope_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salescope_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// RecordDetection counts one role detection outcome.
func RecordDetection(role string, found bool) {
	RoleDetectionsTotal.WithLabelValues(role, strconv.FormatBool(found)).Inc()
}

// RecordCacheLookup counts a series cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SeriesCacheRequestsTotal.WithLabelValues(result).Inc()
}

// Middleware returns a chi middleware that records HTTP metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Use the route pattern if available, otherwise use the path
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		status := strconv.Itoa(ww.Status())
		HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
