package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 90 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(1048576)

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600 // 1 hour

	// Generation defaults
	DefaultGenerationProvider     = "openai"
	DefaultGenerationBaseURL      = "https://api.openai.com/v1"
	DefaultGenerationModel        = "gpt-4.1-nano"
	DefaultGenerationAPIKeySecret = "openai_api_key"
	DefaultGenerationTimeout      = 60 * time.Second

	// Quota defaults
	DefaultQuotaDailyLimit    = 3
	DefaultQuotaSweepSchedule = "0 * * * *"
	DefaultQuotaRetentionDays = 1

	// Secrets defaults
	DefaultSecretsCacheEnabled = true
	DefaultSecretsCacheTTL     = "5m"
	DefaultSecretsCacheMaxSize = 100

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "extractor"
	DefaultMetricsSubsystem   = "api"
	DefaultHealthEnabled      = true
	DefaultHealthLiveness     = "/health"
	DefaultHealthReadiness    = "/ready"
	DefaultHealthVersion      = "/version"
	DefaultHealthCheckTimeout = 5 * time.Second
)

// DefaultRequestDurationBuckets covers fast rejections up to a full generation timeout.
var DefaultRequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// applyPresetDefaults presets fields whose zero value is meaningful: booleans
// that default to true, a sweep schedule where "" disables sweeping, and a
// retention where 0 keeps only today. It runs before YAML decoding so that
// an explicit zero in the file wins.
func applyPresetDefaults(cfg *Config) {
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.Secrets.Cache.Enabled = DefaultSecretsCacheEnabled
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Health.Enabled = DefaultHealthEnabled
	cfg.Quota.SweepSchedule = DefaultQuotaSweepSchedule
	cfg.Quota.RetentionDays = DefaultQuotaRetentionDays
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// CORS defaults
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if len(cfg.Server.CORS.ExposedHeaders) == 0 {
		cfg.Server.CORS.ExposedHeaders = []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Generation defaults
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = DefaultGenerationProvider
	}
	if cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = DefaultGenerationBaseURL
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = DefaultGenerationModel
	}
	if cfg.Generation.APIKeySecret == "" {
		cfg.Generation.APIKeySecret = DefaultGenerationAPIKeySecret
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = DefaultGenerationTimeout
	}

	// Quota defaults
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = DefaultQuotaDailyLimit
	}

	// Secrets defaults
	if len(cfg.Secrets.Providers) == 0 {
		cfg.Secrets.Providers = []SecretProviderConfig{{Type: "env"}}
	}
	if cfg.Secrets.Cache.TTL == "" {
		cfg.Secrets.Cache.TTL = DefaultSecretsCacheTTL
	}
	if cfg.Secrets.Cache.MaxSize == 0 {
		cfg.Secrets.Cache.MaxSize = DefaultSecretsCacheMaxSize
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultHealthLiveness
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultHealthReadiness
	}
	if cfg.Telemetry.Health.VersionPath == "" {
		cfg.Telemetry.Health.VersionPath = DefaultHealthVersion
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}

// Default returns a fully defaulted configuration without reading any file.
func Default() *Config {
	var cfg Config
	applyPresetDefaults(&cfg)
	ApplyDefaults(&cfg)
	return &cfg
}
