package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Provider type names as they appear in configuration.
const (
	ProviderEnv              = "env"
	ProviderFile             = "file"
	ProviderGCPSecretManager = "gcp_secret_manager"
)

// ErrNotFound is returned (wrapped) when a provider has no value for a name.
var ErrNotFound = errors.New("secret not found")

// SecretProvider retrieves secrets from a single backend.
type SecretProvider interface {
	// GetSecret returns the value stored under name. Missing secrets
	// produce an error wrapping ErrNotFound.
	GetSecret(ctx context.Context, name string) (string, error)

	// ListSecrets returns the names this provider can resolve. Values are
	// never returned.
	ListSecrets(ctx context.Context) ([]string, error)

	// Provider returns the provider type name.
	Provider() string

	// Supports reports whether the provider should be asked for name.
	Supports(name string) bool
}

// RefreshableProvider can drop anything it has cached so the next lookup
// reads the backend again.
type RefreshableProvider interface {
	SecretProvider
	Refresh(ctx context.Context) error
}

func notFound(provider, name string) error {
	return fmt.Errorf("%s: %w: %s", provider, ErrNotFound, name)
}
