package controller

import (
	"net/http"
	"phishfeatures/pkg/metrics"
	"strconv"
	"time"
)

// WithMetrics records every request in m. It must wrap the *http.ServeMux
// directly: the mux stores the matched pattern on the request it receives and
// that pattern becomes the route label, which keeps label cardinality bounded.
// Requests no pattern matched are labelled "unmatched".
func WithMetrics(m *metrics.HTTP, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(rec.status)
		m.RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}
