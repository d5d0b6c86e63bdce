package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "EXTRACTOR_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the built-in defaults.
//
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	applyPresetDefaults(&cfg)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention EXTRACTOR_SECTION_FIELD (e.g., EXTRACTOR_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file (if any)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Unparseable numeric, boolean and duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	setString(&cfg.Server.ListenAddress, "SERVER_LISTEN_ADDRESS")
	setDuration(&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	setInt(&cfg.Server.MaxHeaderBytes, "SERVER_MAX_HEADER_BYTES")
	if val := os.Getenv(EnvPrefix + "SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}
	setBool(&cfg.Server.CORS.Enabled, "SERVER_CORS_ENABLED")

	// Generation overrides
	setString(&cfg.Generation.Provider, "GENERATION_PROVIDER")
	setString(&cfg.Generation.BaseURL, "GENERATION_BASE_URL")
	setString(&cfg.Generation.Model, "GENERATION_MODEL")
	setString(&cfg.Generation.APIKey, "GENERATION_API_KEY")
	setString(&cfg.Generation.APIKeySecret, "GENERATION_API_KEY_SECRET")
	setDuration(&cfg.Generation.Timeout, "GENERATION_TIMEOUT")
	setInt(&cfg.Generation.MaxTokens, "GENERATION_MAX_TOKENS")
	if val := os.Getenv(EnvPrefix + "GENERATION_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Generation.Temperature = f
		}
	}

	// Quota overrides
	setInt(&cfg.Quota.DailyLimit, "QUOTA_DAILY_LIMIT")
	setString(&cfg.Quota.SweepSchedule, "QUOTA_SWEEP_SCHEDULE")
	setInt(&cfg.Quota.RetentionDays, "QUOTA_RETENTION_DAYS")

	// Secrets overrides
	setBool(&cfg.Secrets.Cache.Enabled, "SECRETS_CACHE_ENABLED")
	setString(&cfg.Secrets.Cache.TTL, "SECRETS_CACHE_TTL")

	// Telemetry overrides
	setString(&cfg.Telemetry.Logging.Level, "TELEMETRY_LOGGING_LEVEL")
	setString(&cfg.Telemetry.Logging.Format, "TELEMETRY_LOGGING_FORMAT")
	setBool(&cfg.Telemetry.Logging.AddSource, "TELEMETRY_LOGGING_ADD_SOURCE")
	setBool(&cfg.Telemetry.Metrics.Enabled, "TELEMETRY_METRICS_ENABLED")
	setString(&cfg.Telemetry.Metrics.Path, "TELEMETRY_METRICS_PATH")
	setBool(&cfg.Telemetry.Health.Enabled, "TELEMETRY_HEALTH_ENABLED")
}

func setString(dst *string, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
