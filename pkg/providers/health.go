package providers

import (
	"context"
	"log/slog"
	"time"
)

// IsHealthy returns the current health status.
func (p *HTTPProvider) IsHealthy() bool {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.health.IsHealthy
}

// GetHealth returns detailed health information.
func (p *HTTPProvider) GetHealth() ProviderHealth {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.health
}

// updateHealth records the outcome of a call. Any success marks the provider
// healthy; unhealthyThreshold consecutive failures mark it unhealthy.
func (p *HTTPProvider) updateHealth(success bool, err error) {
	p.healthMu.Lock()
	defer p.healthMu.Unlock()

	p.health.LastCheck = time.Now()

	if success {
		if !p.health.IsHealthy {
			slog.Info("provider marked healthy",
				"provider", p.config.Name,
				"previous_failures", p.health.ConsecutiveFailures,
			)
		}
		p.health.IsHealthy = true
		p.health.ConsecutiveFailures = 0
		p.health.LastError = nil
		p.health.LastSuccessfulRequest = time.Now()
		return
	}

	p.health.ConsecutiveFailures++
	p.health.LastError = err

	if p.health.ConsecutiveFailures >= unhealthyThreshold && p.health.IsHealthy {
		p.health.IsHealthy = false
		slog.Warn("provider marked unhealthy",
			"provider", p.config.Name,
			"consecutive_failures", p.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

// recordRequest records request counters.
func (p *HTTPProvider) recordRequest(success bool) {
	p.healthMu.Lock()
	defer p.healthMu.Unlock()

	p.health.TotalRequests++
	if !success {
		p.health.FailedRequests++
	}
}

// Probe issues a GET to url and reports whether it succeeded. Adapters use it
// to implement HealthCheck. The result feeds passive health like any call.
func (p *HTTPProvider) Probe(ctx context.Context, url string, headers map[string]string) error {
	start := time.Now()

	resp, err := p.DoRequest(ctx, "GET", url, nil, headers)
	if err != nil {
		slog.Error("health probe failed",
			"provider", p.config.Name,
			"error", err,
			"latency", time.Since(start),
		)
		return err
	}
	resp.Body.Close()

	slog.Debug("health probe passed",
		"provider", p.config.Name,
		"latency", time.Since(start),
	)
	return nil
}
