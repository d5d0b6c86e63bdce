package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives one observation per completed request.
// *metrics.Collector implements it.
type HTTPRecorder interface {
	RecordHTTPRequest(path, method string, status int, duration time.Duration)
}

// MetricsMiddleware records status and latency for every request.
func MetricsMiddleware(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			recorder.RecordHTTPRequest(r.URL.Path, r.Method, rw.statusCode, time.Since(start))
		})
	}
}

// Chain wraps h with middlewares so that the first one is outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
