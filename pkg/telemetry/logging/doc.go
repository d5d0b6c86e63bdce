// Package logging configures structured logging on top of log/slog.
//
// New builds a JSON or text logger from config.LoggingConfig. Attributes
// whose keys look like credentials (api_key, authorization, token, secret,
// password) are masked down to their first four characters:
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
//	logger.Info("provider configured", "api_key", key) // api_key="sk-a***"
//
// Request-scoped fields travel in the context. The request ID middleware
// stores the ID with WithRequestID and handlers log through FromContext:
//
//	log := logging.FromContext(r.Context(), logger)
//	log.Info("generation completed", "status", 200)
//
// Prompt text is never passed to the logger.
package logging
