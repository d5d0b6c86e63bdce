package config

import "time"

// Config is the root configuration structure for the extractor service.
// It contains all configuration sections for the HTTP server, the generation
// backend, quota enforcement, secret resolution and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, body limits and CORS.
	Server ServerConfig `yaml:"server"`

	// Generation contains configuration for the language-model backend that
	// turns a prompt into extracted instructions.
	Generation GenerationConfig `yaml:"generation"`

	// Quota contains configuration for the per-user daily quota.
	Quota QuotaConfig `yaml:"quota"`

	// Secrets contains configuration for resolving credentials at startup.
	Secrets SecretsConfig `yaml:"secrets"`

	// Telemetry contains configuration for logging, metrics and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "0.0.0.0:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed generation.timeout or slow generations are cut off.
	// Default: 90s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of a /generate request body.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// The browser extension calls from arbitrary origins, so ["*"] is the default.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed in CORS requests.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// GenerationConfig contains configuration for the language-model backend.
type GenerationConfig struct {
	// Provider is the backend type. Only "openai" is supported.
	// Default: "openai"
	Provider string `yaml:"provider"`

	// BaseURL is the base URL for the provider's API endpoint.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// Model is the chat-completion model used for extraction.
	// Default: "gpt-4.1-nano"
	Model string `yaml:"model"`

	// APIKey is the authentication key. When empty, the key is resolved
	// through the secrets manager using APIKeySecret.
	APIKey string `yaml:"api_key"`

	// APIKeySecret is the secret name holding the API key.
	// Default: "openai_api_key"
	APIKeySecret string `yaml:"api_key_secret"`

	// Timeout bounds a single generation call. A timeout is reported to the
	// client as a generation failure.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxTokens caps the completion length (0 = provider default).
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the sampling temperature (0 = provider default).
	Temperature float64 `yaml:"temperature"`

	// SystemPrompt overrides the built-in extraction instruction.
	SystemPrompt string `yaml:"system_prompt"`
}

// QuotaConfig contains per-user daily quota configuration.
type QuotaConfig struct {
	// DailyLimit is the number of accepted generation requests per user per
	// UTC calendar day.
	// Default: 3
	DailyLimit int `yaml:"daily_limit"`

	// SweepSchedule is a standard cron expression controlling when records
	// from past days are evicted from memory. An empty schedule disables
	// sweeping.
	// Default: "0 * * * *" (hourly)
	SweepSchedule string `yaml:"sweep_schedule"`

	// RetentionDays is how many past days of records survive a sweep; 0
	// keeps only today.
	// Default: 1
	RetentionDays int `yaml:"retention_days"`
}

// SecretsConfig contains secret management configuration.
type SecretsConfig struct {
	// Providers is a list of secret providers to use.
	// Providers are tried in order until one successfully returns a value.
	// Default: a single "env" provider with an empty prefix.
	Providers []SecretProviderConfig `yaml:"providers"`

	// Cache contains secret caching configuration.
	Cache SecretsCacheConfig `yaml:"cache"`
}

// SecretProviderConfig contains configuration for a secret provider.
type SecretProviderConfig struct {
	// Type is the provider type.
	// Options: "env", "file", "gcp_secret_manager"
	Type string `yaml:"type"`

	// Prefix is the environment variable prefix (for "env" provider).
	// Example: "EXTRACTOR_SECRET_"
	Prefix string `yaml:"prefix,omitempty"`

	// Path is the directory holding one file per secret (for "file" provider).
	// Example: "/var/secrets"
	Path string `yaml:"path,omitempty"`

	// Watch enables fsnotify-based cache invalidation (for "file" provider).
	Watch bool `yaml:"watch,omitempty"`

	// Project is the GCP project ID (for "gcp_secret_manager" provider).
	Project string `yaml:"project,omitempty"`
}

// SecretsCacheConfig contains configuration for secret caching.
type SecretsCacheConfig struct {
	// Enabled controls whether secret caching is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// TTL is the time-to-live for cached secrets.
	// Format: "5m", "1h", etc.
	// Default: "5m"
	TTL string `yaml:"ttl"`

	// MaxSize is the maximum number of secrets to cache.
	// Default: 100
	MaxSize int `yaml:"max_size"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "extractor"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "api"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for request and
	// generation duration (seconds).
	// Default: [0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are registered.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// VersionPath is the path for the version information endpoint.
	// Default: "/version"
	VersionPath string `yaml:"version_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
