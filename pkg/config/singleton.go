package config

import (
	"fmt"
	"sync"
)

var (
	// current is the configuration published for the running process.
	current *Config

	// currentMu guards current.
	currentMu sync.RWMutex
)

// Initialize loads the configuration at path with environment overrides and
// publishes it as the process configuration. An empty path publishes the
// built-in defaults. On error nothing is published.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	publish(cfg)
	return nil
}

// GetConfig returns the published configuration, or nil before the first
// successful Initialize.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// ReloadConfig re-reads the configuration at path and publishes it. The
// previous configuration stays in place if loading or validation fails.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	publish(cfg)
	return nil
}

func publish(cfg *Config) {
	currentMu.Lock()
	current = cfg
	currentMu.Unlock()
}
