// Package telemetry groups the extractor's observability packages.
//
//   - logging: slog construction, credential redaction, request-scoped fields
//   - metrics: Prometheus collector and /metrics handler
//   - health: liveness, readiness and version endpoints
//
// The server wires all three from config.TelemetryConfig at startup.
package telemetry
