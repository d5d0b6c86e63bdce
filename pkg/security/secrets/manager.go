package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"instructions-hq/extractor/pkg/config"
)

// secretRefPattern matches ${secret:name} references.
var secretRefPattern = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager resolves secrets through an ordered list of providers. The first
// provider that supports a name and returns a value wins, and the value is
// cached.
type Manager struct {
	providers []SecretProvider
	cache     *Cache
	logger    *slog.Logger
}

// NewManager creates a manager over providers, tried in order.
func NewManager(providers []SecretProvider, cacheConfig CacheConfig) *Manager {
	return &Manager{
		providers: providers,
		cache:     NewCache(cacheConfig),
		logger:    slog.Default().With("component", "secrets"),
	}
}

// NewManagerFromConfig builds the providers named in cfg. The context is
// used only to dial remote backends.
func NewManagerFromConfig(ctx context.Context, cfg config.SecretsConfig) (*Manager, error) {
	var ttl time.Duration
	if cfg.Cache.TTL != "" {
		d, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("secrets cache ttl: %w", err)
		}
		ttl = d
	}

	providers := make([]SecretProvider, 0, len(cfg.Providers))
	fail := func(err error) (*Manager, error) {
		closeProviders(providers)
		return nil, err
	}

	for i, pc := range cfg.Providers {
		switch pc.Type {
		case ProviderEnv:
			providers = append(providers, NewEnvProvider(pc.Prefix))
		case ProviderFile:
			p, err := NewFileProvider(pc.Path, pc.Watch)
			if err != nil {
				return fail(fmt.Errorf("secrets provider %d: %w", i, err))
			}
			providers = append(providers, p)
		case ProviderGCPSecretManager:
			p, err := NewGCPSecretManagerProvider(ctx, pc.Project)
			if err != nil {
				return fail(fmt.Errorf("secrets provider %d: %w", i, err))
			}
			providers = append(providers, p)
		default:
			return fail(fmt.Errorf("secrets provider %d: unknown type %q", i, pc.Type))
		}
	}

	return NewManager(providers, CacheConfig{
		Enabled: cfg.Cache.Enabled,
		TTL:     ttl,
		MaxSize: cfg.Cache.MaxSize,
	}), nil
}

// Providers returns the configured provider names in lookup order.
func (m *Manager) Providers() []string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Provider()
	}
	return names
}

// GetSecret resolves name. When every supporting provider fails the last
// provider error is returned wrapped.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := m.cache.Get(name); ok {
		return value, nil
	}

	var lastErr error
	for _, p := range m.providers {
		if !p.Supports(name) {
			continue
		}

		value, err := p.GetSecret(ctx, name)
		if err != nil {
			m.logger.DebugContext(ctx, "secret provider miss",
				"provider", p.Provider(),
				"name", name,
				"error", err,
			)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		m.cache.Set(name, value)
		m.logger.DebugContext(ctx, "secret resolved", "provider", p.Provider(), "name", name)
		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("resolve secret %q: %w", name, lastErr)
	}
	return "", fmt.Errorf("resolve secret %q: %w (no provider supports it)", name, ErrNotFound)
}

// ResolveReferences replaces every ${secret:name} in input. References that
// fail to resolve are left in place and reported together.
func (m *Manager) ResolveReferences(ctx context.Context, input string) (string, error) {
	var errs []error

	out := secretRefPattern.ReplaceAllStringFunc(input, func(ref string) string {
		name := secretRefPattern.FindStringSubmatch(ref)[1]
		value, err := m.GetSecret(ctx, name)
		if err != nil {
			errs = append(errs, err)
			return ref
		}
		return value
	})

	return out, errors.Join(errs...)
}

// HasReferences reports whether input contains a ${secret:name} reference.
func HasReferences(input string) bool {
	return secretRefPattern.MatchString(input)
}

// ListSecrets merges the names from every provider. Providers that fail to
// list are skipped.
func (m *Manager) ListSecrets(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range m.providers {
		names, err := p.ListSecrets(ctx)
		if err != nil {
			m.logger.WarnContext(ctx, "failed to list secrets", "provider", p.Provider(), "error", err)
			continue
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// Refresh refreshes every refreshable provider and clears the cache.
func (m *Manager) Refresh(ctx context.Context) error {
	var failed []string
	for _, p := range m.providers {
		r, ok := p.(RefreshableProvider)
		if !ok {
			continue
		}
		if err := r.Refresh(ctx); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", p.Provider(), err))
		}
	}
	m.cache.Clear()

	if len(failed) > 0 {
		return fmt.Errorf("refresh secrets: %s", strings.Join(failed, "; "))
	}
	return nil
}

// Close closes providers holding watchers or connections.
func (m *Manager) Close() error {
	return closeProviders(m.providers)
}

func closeProviders(providers []SecretProvider) error {
	var errs []error
	for _, p := range providers {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
