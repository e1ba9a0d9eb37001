// Package metrics exposes Prometheus metrics for API calls, the pending
// request counter and console HTTP traffic.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// API client metrics
	APIRequests *prometheus.CounterVec
	APIDuration *prometheus.HistogramVec
	Pending     prometheus.Gauge

	// Console HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	apiRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of REST API requests",
		},
		[]string{"method", "resource", "outcome"},
	)

	apiDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "REST API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)

	pending := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_requests",
			Help:      "Number of REST API requests in flight",
		},
	)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of console HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Console HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registry.MustRegister(
		apiRequests,
		apiDuration,
		pending,
		httpRequests,
		httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry:     registry,
		APIRequests:  apiRequests,
		APIDuration:  apiDuration,
		Pending:      pending,
		HTTPRequests: httpRequests,
		HTTPDuration: httpDuration,
	}
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// BindLoading mirrors counter into the pending gauge until the returned
// function is called.
func (c *Collector) BindLoading(counter *admin.PendingCounter) func() {
	c.Pending.Set(float64(counter.Pending()))

	return counter.Subscribe(func(pending int) {
		c.Pending.Set(float64(pending))
	})
}

// ResponseInterceptor records every settled API call. Pair it with
// admin.TimingInterceptor to get durations.
func (c *Collector) ResponseInterceptor() admin.ResponseInterceptor {
	return func(ctx context.Context, req *admin.Request, resp *admin.Response) error {
		resource := ResourceOf(req.Path)

		outcome := OutcomeSuccess
		if resp.Error != nil {
			outcome = OutcomeError
		}

		c.APIRequests.WithLabelValues(req.Method, resource, outcome).Inc()

		if elapsed, ok := admin.Elapsed(req); ok {
			c.APIDuration.WithLabelValues(req.Method, resource).Observe(elapsed.Seconds())
		}

		return nil
	}
}

// Middleware records console requests by chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ResourceOf returns the first path segment, e.g. "users" for "/users/3".
func ResourceOf(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "root"
	}

	resource, _, _ := strings.Cut(path, "/")

	return resource
}
