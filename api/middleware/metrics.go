package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiomosaico/storefront-gateway/pkg/metrics"
)

// Metrics records duration and status for every request, labeled by the chi
// route pattern so path parameters do not explode the cardinality.
func Metrics(reqMetrics *metrics.RequestMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			route := r.URL.Path
			if ctx := chi.RouteContext(r.Context()); ctx != nil {
				if pattern := ctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			reqMetrics.ObserveRequest(route, r.Method, rec.status, time.Since(start))
			if rec.status == http.StatusServiceUnavailable {
				reqMetrics.IncUpstreamError(route)
			}
		})
	}
}
