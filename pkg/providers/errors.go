package providers

import (
	"context"
	"fmt"
	"time"
)

// ProviderError represents a general provider error.
// It includes the provider name, HTTP status code, and underlying error.
type ProviderError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider %q error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure (HTTP 401 or 403).
type AuthError struct {
	Provider string
	Message  string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// RateLimitError represents an upstream rate limit (HTTP 429).
// It includes the retry-after duration if provided by the provider.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Message    string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Provider, e.Message)
}

// TimeoutError represents a request that ran past its deadline.
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
	}
	return fmt.Sprintf("provider %q request timeout", e.Provider)
}

// Unwrap makes errors.Is(err, context.DeadlineExceeded) hold for timeouts.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// ParseError represents a malformed provider response.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a request rejected before it was sent.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConfigError represents an invalid provider configuration.
type ConfigError struct {
	Provider string
	Field    string
	Message  string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
