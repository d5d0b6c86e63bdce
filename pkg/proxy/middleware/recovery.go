package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"instructions-hq/extractor/pkg/proxy"
	"instructions-hq/extractor/pkg/proxy/types"
)

// RecoveryMiddleware turns a panic in a handler into a 500
// {"error": "Internal server error"} and logs the stack. If the handler had
// already started the response, nothing more is written.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", rw.Header().Get(RequestIDHeader),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if !rw.written {
					_ = proxy.WriteError(rw, http.StatusInternalServerError, types.MsgInternal)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
