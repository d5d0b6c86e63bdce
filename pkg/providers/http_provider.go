package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// maxErrorBody bounds how much of an upstream error body is kept in errors.
const maxErrorBody = 4096

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It provides connection pooling, typed error mapping and passive health
// tracking. It makes exactly one attempt per call.
//
// Concrete adapters embed this struct and add the wire format.
type HTTPProvider struct {
	config ProviderConfig
	client *http.Client

	health   ProviderHealth
	healthMu sync.RWMutex
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		health: ProviderHealth{
			IsHealthy:             true, // Start optimistic
			LastCheck:             time.Now(),
			LastSuccessfulRequest: time.Now(),
		},
	}
}

// GetName returns the provider's configured name.
func (p *HTTPProvider) GetName() string {
	return p.config.Name
}

// GetConfig returns the provider's configuration.
func (p *HTTPProvider) GetConfig() ProviderConfig {
	return p.config
}

// DoRequest performs a single HTTP request and maps failures to typed errors:
//
//   - 401/403: *AuthError
//   - 429: *RateLimitError
//   - other non-2xx: *ProviderError with the status code
//   - deadline exceeded or network timeout: *TimeoutError
//   - caller cancellation: the context error
//
// On success the caller owns the response body.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", p.config.Name,
		"method", method,
		"url", url,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		mapped := p.mapTransportError(ctx, err)
		p.recordRequest(false)
		if !errors.Is(mapped, context.Canceled) {
			p.updateHealth(false, mapped)
		}
		return nil, mapped
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		p.recordRequest(true)
		p.updateHealth(true, nil)
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()

	var statusErr error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		statusErr = &AuthError{
			Provider: p.config.Name,
			Message:  string(errorBody),
		}
	case http.StatusTooManyRequests:
		statusErr = &RateLimitError{
			Provider:   p.config.Name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(errorBody),
		}
	default:
		statusErr = &ProviderError{
			Provider:   p.config.Name,
			StatusCode: resp.StatusCode,
			Message:    string(errorBody),
		}
	}

	p.recordRequest(false)
	// Client-side mistakes say nothing about backend health.
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		p.updateHealth(false, statusErr)
	}

	slog.Warn("provider returned error status",
		"provider", p.config.Name,
		"status", resp.StatusCode,
	)

	return nil, statusErr
}

// mapTransportError converts an error from http.Client.Do into a typed error.
func (p *HTTPProvider) mapTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return &TimeoutError{Provider: p.config.Name, Timeout: p.config.Timeout}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Provider: p.config.Name, Timeout: p.config.Timeout}
	}

	return &ProviderError{
		Provider: p.config.Name,
		Message:  "request failed",
		Cause:    err,
	}
}

// DoJSONRequest performs a JSON request and decodes the response into respBody.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, url string, reqBody interface{}, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := p.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return p.mapTransportError(ctx, err)
		}
		return &ParseError{
			Provider: p.config.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody == nil {
		return nil
	}
	if len(responseBytes) == 0 {
		return &ParseError{
			Provider: p.config.Name,
			Cause:    errors.New("empty response body"),
		}
	}
	if err := json.Unmarshal(responseBytes, respBody); err != nil {
		return &ParseError{
			Provider:    p.config.Name,
			RawResponse: string(responseBytes),
			Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	return nil
}

// Close closes idle connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	slog.Info("provider closed", "provider", p.config.Name)
	return nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}
