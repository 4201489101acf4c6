// Package metrics defines the Prometheus metrics exposed at /metrics.
package metrics

import (
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

var (
	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidvault_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// StreamedBytesTotal counts bytes relayed to clients by the media proxy.
	StreamedBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vidvault_streamed_bytes_total",
			Help: "Bytes relayed by the streaming proxy",
		},
	)

	// StreamSessionsTotal counts streaming requests by outcome.
	StreamSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidvault_stream_sessions_total",
			Help: "Streaming sessions by outcome",
		},
		[]string{"outcome"},
	)

	// UploadedBytesTotal counts bytes accepted by the upload pipeline.
	UploadedBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vidvault_uploaded_bytes_total",
			Help: "Bytes written to storage backends by uploads",
		},
	)

	// UploadFailuresTotal counts rejected or failed uploads.
	UploadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vidvault_upload_failures_total",
			Help: "Uploads that were rejected or failed",
		},
	)
)

// Register installs the metrics in the default registry. Idempotent.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			StreamedBytesTotal,
			StreamSessionsTotal,
			UploadedBytesTotal,
			UploadFailuresTotal,
		)
	})
}

// Middleware records per-request counters, labeled by the matched route so
// path parameters do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
