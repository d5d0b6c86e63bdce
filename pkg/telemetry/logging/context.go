package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// UserKey is the context key for the caller-supplied user identifier.
	UserKey contextKey = "user"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithUser adds a user identifier to the context.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUser retrieves the user identifier from the context.
func GetUser(ctx context.Context) string {
	if user, ok := ctx.Value(UserKey).(string); ok {
		return user
	}
	return ""
}

// FromContext returns logger annotated with the request ID and user found in
// ctx. A nil logger means slog.Default().
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}

	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if user := GetUser(ctx); user != "" {
		fields = append(fields, "user_id", user)
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
