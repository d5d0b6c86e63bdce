package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateGeneration(&cfg.Generation)...)
	errs = append(errs, validateQuota(&cfg.Quota)...)
	errs = append(errs, validateSecrets(&cfg.Secrets)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
		{"server.idle_timeout", cfg.IdleTimeout},
		{"server.shutdown_timeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, FieldError{
				Field:   d.field,
				Message: "timeout must not be negative",
			})
		}
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must be non-negative",
		})
	}
	if cfg.CORS.AllowCredentials && contains(cfg.CORS.AllowedOrigins, "*") {
		errs = append(errs, FieldError{
			Field:   "server.cors.allow_credentials",
			Message: "credentials cannot be allowed together with wildcard origin",
		})
	}

	return errs
}

// validateGeneration validates the language-model backend configuration.
func validateGeneration(cfg *GenerationConfig) []FieldError {
	var errs []FieldError

	if cfg.Provider != "openai" {
		errs = append(errs, FieldError{
			Field:   "generation.provider",
			Message: fmt.Sprintf("unsupported provider %q (supported: openai)", cfg.Provider),
		})
	}

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "generation.base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(cfg.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "generation.base_url",
			Message: fmt.Sprintf("invalid base URL %q (must be http or https)", cfg.BaseURL),
		})
	}

	if cfg.Model == "" {
		errs = append(errs, FieldError{
			Field:   "generation.model",
			Message: "model is required",
		})
	}

	if cfg.APIKey == "" && cfg.APIKeySecret == "" {
		errs = append(errs, FieldError{
			Field:   "generation.api_key_secret",
			Message: "either api_key or api_key_secret must be set",
		})
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "generation.timeout",
			Message: "timeout must be positive",
		})
	}

	if cfg.MaxTokens < 0 {
		errs = append(errs, FieldError{
			Field:   "generation.max_tokens",
			Message: "max tokens must be non-negative",
		})
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "generation.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	return errs
}

// validateQuota validates quota configuration.
func validateQuota(cfg *QuotaConfig) []FieldError {
	var errs []FieldError

	if cfg.DailyLimit < 1 {
		errs = append(errs, FieldError{
			Field:   "quota.daily_limit",
			Message: "daily limit must be at least 1",
		})
	}

	if cfg.SweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.SweepSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "quota.sweep_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.SweepSchedule, err),
			})
		}
	}

	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "quota.retention_days",
			Message: "retention days must be non-negative",
		})
	}

	return errs
}

// validateSecrets validates secret provider configuration.
func validateSecrets(cfg *SecretsConfig) []FieldError {
	var errs []FieldError

	for i, p := range cfg.Providers {
		field := fmt.Sprintf("secrets.providers[%d]", i)
		switch p.Type {
		case "env":
		case "file":
			if p.Path == "" {
				errs = append(errs, FieldError{
					Field:   field + ".path",
					Message: "path is required for file provider",
				})
			}
		case "gcp_secret_manager":
			if p.Project == "" {
				errs = append(errs, FieldError{
					Field:   field + ".project",
					Message: "project is required for gcp_secret_manager provider",
				})
			}
		default:
			errs = append(errs, FieldError{
				Field:   field + ".type",
				Message: fmt.Sprintf("unknown secret provider type %q (valid: env, file, gcp_secret_manager)", p.Type),
			})
		}
	}

	if cfg.Cache.TTL != "" {
		if d, err := time.ParseDuration(cfg.Cache.TTL); err != nil || d < 0 {
			errs = append(errs, FieldError{
				Field:   "secrets.cache.ttl",
				Message: fmt.Sprintf("invalid duration %q", cfg.Cache.TTL),
			})
		}
	}

	if cfg.Cache.MaxSize < 0 {
		errs = append(errs, FieldError{
			Field:   "secrets.cache.max_size",
			Message: "max size must be non-negative",
		})
	}

	return errs
}

// validateTelemetry validates logging, metrics and health configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (valid: json, text)", cfg.Logging.Format),
		})
	}

	paths := []struct {
		field string
		value string
	}{
		{"telemetry.metrics.path", cfg.Metrics.Path},
		{"telemetry.health.liveness_path", cfg.Health.LivenessPath},
		{"telemetry.health.readiness_path", cfg.Health.ReadinessPath},
		{"telemetry.health.version_path", cfg.Health.VersionPath},
	}
	for _, p := range paths {
		if !strings.HasPrefix(p.value, "/") {
			errs = append(errs, FieldError{
				Field:   p.field,
				Message: "path must start with /",
			})
		}
	}

	for i, b := range cfg.Metrics.RequestDurationBuckets {
		if b <= 0 || (i > 0 && b <= cfg.Metrics.RequestDurationBuckets[i-1]) {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.request_duration_buckets",
				Message: "buckets must be positive and strictly increasing",
			})
			break
		}
	}

	if cfg.Health.CheckTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.check_timeout",
			Message: "check timeout must not be negative",
		})
	}

	return errs
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
