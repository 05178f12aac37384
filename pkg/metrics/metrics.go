package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// CacheRequests counts reference cache lookups by slot and result (hit, miss, error).
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refcache_requests_total",
			Help: "Reference cache lookups by slot and result",
		},
		[]string{"slot", "result"},
	)

	CacheEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refcache_evictions_total",
			Help: "Reference cache evictions by slot",
		},
		[]string{"slot"},
	)

	// CacheSweeps counts scheduled sweeps by outcome (completed, skipped, failed).
	CacheSweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refcache_sweeps_total",
			Help: "Scheduled cache sweeps by outcome",
		},
		[]string{"outcome"},
	)

	CatalogEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_total",
			Help: "Catalog events consumed by type",
		},
		[]string{"type"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			CacheRequests,
			CacheEvictions,
			CacheSweeps,
			CatalogEvents,
		)
	})
}

// HTTPMetrics records request counts and latency for one service.
type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	Register()
	return &HTTPMetrics{ServiceName: serviceName}
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let echo write the error response so the recorded status is the real one.
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()

			RequestCounter.WithLabelValues(m.ServiceName, method, path, status).Inc()
			RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, status).
				Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
