package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/casalar/ledger/internal/infrastructure/metrics"
)

// Metrics returns a middleware that records HTTP metrics.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			// Wrap response writer to capture status code
			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses tenant schemas and account IDs to keep the
// path label cardinality bounded:
// /api/v1/tenants/casa_sol/accounts/01ABC/statement
//
//	-> /api/v1/tenants/:schema/accounts/:id/statement
func normalizePath(path string) string {
	const prefix = "/api/v1/tenants/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}

	segments := strings.Split(path, "/")
	// ["", "api", "v1", "tenants", schema, ...]
	if len(segments) > 4 && segments[4] != "" {
		segments[4] = ":schema"
	}
	if len(segments) > 6 && segments[5] == "accounts" && segments[6] != "" {
		segments[6] = ":id"
	}

	return strings.Join(segments, "/")
}
