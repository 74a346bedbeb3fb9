package muxhandlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vitalvas/workopia/mux"
)

// ErrNoRegistry is returned when MetricsConfig.Registry is nil.
var ErrNoRegistry = errors.New("metrics: registry must not be nil")

// MetricsConfig configures the Metrics middleware behaviour.
type MetricsConfig struct {
	// Namespace is the metrics namespace. Defaults to "workopia".
	Namespace string

	// Buckets are the latency histogram buckets in seconds.
	// Defaults to prometheus.DefBuckets.
	Buckets []float64

	// Registry receives the collectors. Required; pass
	// prometheus.DefaultRegisterer to use the global registry.
	Registry prometheus.Registerer
}

// unmatchedRoute labels requests that reached the middleware without a
// matched route in their context.
const unmatchedRoute = "unmatched"

// MetricsMiddleware returns a middleware that records http_requests_total and
// http_request_duration_seconds labelled by method, route pattern and status.
// Labelling by pattern rather than raw path keeps label cardinality bounded,
// so the middleware must be registered with Router.Use.
//
// It returns ErrNoRegistry if Registry is nil.
func MetricsMiddleware(cfg MetricsConfig) (mux.MiddlewareFunc, error) {
	if cfg.Registry == nil {
		return nil, ErrNoRegistry
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "workopia"
	}

	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	factory := promauto.With(cfg.Registry)

	requests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled, by route.",
	}, []string{"method", "route", "status"})

	duration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds, by route.",
		Buckets:   buckets,
	}, []string{"method", "route"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			route := unmatchedRoute
			if current := mux.CurrentRoute(r); current != nil {
				route = current.GetPathTemplate()
			}

			requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.statusCode())).Inc()
			duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}, nil
}
