package secrets

import (
	"context"
	"os"
	"sort"
	"strings"
)

// EnvProvider reads secrets from environment variables.
//
// A secret name maps to PREFIX + upper(name) with hyphens turned into
// underscores, so with an empty prefix "openai_api_key" and
// "openai-api-key" both read OPENAI_API_KEY.
type EnvProvider struct {
	Prefix string

	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvProvider creates an environment provider with the given prefix.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix:  prefix,
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// GetSecret returns the variable's value. Unset and empty variables are
// both reported as not found.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, ok := p.lookup(p.envVar(name))
	if !ok || value == "" {
		return "", notFound(ProviderEnv, p.envVar(name))
	}
	return value, nil
}

// ListSecrets returns the lower-cased names of non-empty variables carrying
// the prefix. With an empty prefix this is every variable in the process.
func (p *EnvProvider) ListSecrets(ctx context.Context) ([]string, error) {
	var names []string
	for _, kv := range p.environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasPrefix(key, p.Prefix) {
			continue
		}
		names = append(names, strings.ToLower(strings.TrimPrefix(key, p.Prefix)))
	}
	sort.Strings(names)
	return names, nil
}

// Provider returns "env".
func (p *EnvProvider) Provider() string {
	return ProviderEnv
}

// Supports accepts any non-empty name.
func (p *EnvProvider) Supports(name string) bool {
	return name != ""
}

func (p *EnvProvider) envVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
