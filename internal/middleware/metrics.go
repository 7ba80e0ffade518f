package middleware

import (
	"net/http"
	"time"

	"github.com/mmynk/fintrack/internal/metrics"
)

// unmatchedRoute labels requests that no route pattern matched, keeping the
// label set bounded.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per route pattern.
// It must wrap the ServeMux so that r.Pattern is populated after routing.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recordStatus(w)

			// Deferred so that a panicking handler is counted as the 500
			// RequestLogger answers with.
			defer func() {
				status := rec.status
				p := recover()
				if p != nil && !rec.wroteHeader {
					status = http.StatusInternalServerError
				}
				m.ObserveRequest(r.Method, routeLabel(r), status, time.Since(start))
				if p != nil {
					panic(p)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	return r.Pattern
}
