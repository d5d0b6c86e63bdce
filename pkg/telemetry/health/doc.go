// Package health provides liveness, readiness and version endpoints.
//
// Liveness only proves the process is serving. Readiness runs every
// registered CheckFunc concurrently, each bounded by the checker's timeout,
// and answers 503 when any check fails:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("generation", func(ctx context.Context) error {
//	    if !gen.IsHealthy() {
//	        return errors.New("provider marked unhealthy")
//	    }
//	    return nil
//	})
//	health.Register(mux, checker, health.Paths{Liveness: "/health", Readiness: "/ready", Version: "/version"}, info)
package health
