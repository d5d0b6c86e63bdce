package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with a valid default configuration
// carrying an inline API key, so no secret lookup is needed.
func NewTestConfig() *ConfigBuilder {
	cfg := *Default()
	cfg.Generation.APIKey = "test-key"
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithListenAddress sets the server listen address.
func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Server.ListenAddress = addr
	return b
}

// WithBaseURL points generation at a different backend.
func (b *ConfigBuilder) WithBaseURL(url string) *ConfigBuilder {
	b.cfg.Generation.BaseURL = url
	return b
}

// WithGenerationTimeout sets the generation timeout.
func (b *ConfigBuilder) WithGenerationTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Generation.Timeout = d
	return b
}

// WithDailyLimit sets the per-user daily limit.
func (b *ConfigBuilder) WithDailyLimit(limit int) *ConfigBuilder {
	b.cfg.Quota.DailyLimit = limit
	return b
}

// WithSweepSchedule sets the quota sweep cron expression.
func (b *ConfigBuilder) WithSweepSchedule(schedule string) *ConfigBuilder {
	b.cfg.Quota.SweepSchedule = schedule
	return b
}

// WithSecretProvider appends a secret provider.
func (b *ConfigBuilder) WithSecretProvider(p SecretProviderConfig) *ConfigBuilder {
	b.cfg.Secrets.Providers = append(b.cfg.Secrets.Providers, p)
	return b
}

// WithLogLevel sets the logging level.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithMetricsEnabled toggles metrics collection.
func (b *ConfigBuilder) WithMetricsEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
