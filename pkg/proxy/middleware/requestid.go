package middleware

import (
	"net/http"

	"instructions-hq/extractor/pkg/proxy"
	"instructions-hq/extractor/pkg/telemetry/logging"

	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header for request ID.
const RequestIDHeader = proxy.RequestIDHeader

// RequestIDMiddleware assigns every request an ID, stores it in the context
// and echoes it in the X-Request-ID response header. A usable client-supplied
// ID is kept; otherwise a UUIDv4 is generated.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := proxy.ExtractRequestID(r)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
