package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"instructions-hq/extractor/pkg/providers"
)

// DefaultTimeout bounds a generation call when none is configured.
const DefaultTimeout = 60 * time.Second

// Observer receives per-call generation telemetry. The metrics collector
// implements it.
type Observer interface {
	RecordGeneration(duration time.Duration, status string)
	RecordGenerationFailure(kind string)
}

// Config configures a Client.
type Config struct {
	// Model is the chat model identifier.
	Model string

	// SystemPrompt overrides DefaultSystemPrompt when non-empty.
	SystemPrompt string

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxTokens and Temperature are forwarded when non-zero.
	MaxTokens   int
	Temperature float64
}

// Client turns page text into extracted instructions through a provider.
type Client struct {
	provider     providers.Provider
	model        string
	systemPrompt string
	timeout      time.Duration
	maxTokens    int
	temperature  float64
	observer     Observer
	logger       *slog.Logger
}

// NewClient creates a generation client. observer may be nil.
func NewClient(provider providers.Provider, cfg Config, observer Observer) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("generation: provider is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("generation: model is required")
	}

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		provider:     provider,
		model:        cfg.Model,
		systemPrompt: prompt,
		timeout:      timeout,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		observer:     observer,
		logger:       slog.Default().With("component", "generation"),
	}, nil
}

// Generate sends the system instruction and userContent to the model once.
// It never retries and never panics; every failure comes back as a Result.
func (c *Client) Generate(ctx context.Context, userContent string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	resp, err := c.provider.SendCompletion(ctx, &providers.CompletionRequest{
		Model: c.model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: c.systemPrompt},
			{Role: providers.RoleUser, Content: userContent},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	elapsed := time.Since(start)

	if err != nil {
		kind := Classify(err)
		if kind != KindTimeout && ctx.Err() == context.DeadlineExceeded {
			kind = KindTimeout
		}

		c.logger.Warn("generation failed",
			"kind", kind,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
		if c.observer != nil {
			c.observer.RecordGeneration(elapsed, "error")
			c.observer.RecordGenerationFailure(string(kind))
		}
		return Failed(kind, err.Error())
	}

	if c.observer != nil {
		c.observer.RecordGeneration(elapsed, "success")
	}
	c.logger.Debug("generation completed",
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
		"finish_reason", resp.FinishReason,
		"duration_ms", elapsed.Milliseconds(),
	)

	return Succeeded(strings.TrimSpace(resp.Content))
}

// HealthCheck probes the underlying provider.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.provider.HealthCheck(ctx)
}

// IsHealthy reports the provider's passive health.
func (c *Client) IsHealthy() bool {
	return c.provider.IsHealthy()
}

// Close closes the underlying provider.
func (c *Client) Close() error {
	return c.provider.Close()
}
