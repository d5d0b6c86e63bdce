// Package config provides configuration management for the instruction
// extractor service.
//
// Configuration is read from an optional YAML file, filled with defaults,
// overridden from the environment and validated before use.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("config.yaml")                // file + defaults
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml") // file + defaults + env
//
// An empty path skips the file, so the service runs from defaults and
// environment variables alone.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention EXTRACTOR_SECTION_FIELD:
//
//   - EXTRACTOR_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - EXTRACTOR_QUOTA_DAILY_LIMIT overrides quota.daily_limit
//   - EXTRACTOR_GENERATION_MODEL overrides generation.model
//   - EXTRACTOR_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Validation
//
// Validation collects every failing field before returning:
//
//	configuration validation failed with 2 errors:
//	  - quota.daily_limit: daily limit must be at least 1
//	  - generation.base_url: invalid base URL "ftp://x" (must be http or https)
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//
//	generation:
//	  model: "gpt-4.1-nano"
//	  api_key_secret: "openai_api_key"
//	  timeout: "60s"
//
//	quota:
//	  daily_limit: 3
//	  sweep_schedule: "0 * * * *"
//
//	secrets:
//	  providers:
//	    - type: env
//	    - type: gcp_secret_manager
//	      project: "my-project"
package config
