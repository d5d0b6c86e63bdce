package providers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestProviderError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &ProviderError{
			Provider:   "openai",
			StatusCode: 500,
			Message:    "internal error",
		}

		expected := `provider "openai" error (status 500): internal error`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without status code", func(t *testing.T) {
		err := &ProviderError{
			Provider: "openai",
			Message:  "connection failed",
		}

		expected := `provider "openai" error: connection failed`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &ProviderError{
			Provider: "openai",
			Message:  "request failed",
			Cause:    cause,
		}

		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected cause in message, got %q", err.Error())
		}
	})
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Provider: "openai", Message: "Invalid API key"}

	expected := `provider "openai" authentication failed: Invalid API key`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	tests := []struct {
		name     string
		err      *RateLimitError
		expected string
	}{
		{
			name:     "with retry after",
			err:      &RateLimitError{Provider: "openai", RetryAfter: 30 * time.Second, Message: "slow down"},
			expected: `provider "openai" rate limit exceeded (retry after 30s): slow down`,
		},
		{
			name:     "without retry after",
			err:      &RateLimitError{Provider: "openai", Message: "slow down"},
			expected: `provider "openai" rate limit exceeded: slow down`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Provider: "openai", Timeout: 60 * time.Second}

	expected := `provider "openai" request timeout after 1m0s`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected TimeoutError to match context.DeadlineExceeded")
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ParseError{Provider: "openai", RawResponse: "{", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected error to wrap cause")
	}
	if !strings.Contains(err.Error(), "response parse error") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidationAndConfigErrors(t *testing.T) {
	v := &ValidationError{Field: "model", Message: "model is required"}
	if v.Error() != `validation error for field "model": model is required` {
		t.Errorf("unexpected validation message %q", v.Error())
	}

	c := &ConfigError{Provider: "openai", Field: "api_key", Message: "API key is required"}
	if c.Error() != `provider "openai" configuration error for field "api_key": API key is required` {
		t.Errorf("unexpected config message %q", c.Error())
	}
}
