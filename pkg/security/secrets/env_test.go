package secrets

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestEnvProvider_GetSecret(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("EXTRACTOR_SECRET_OPENAI_API_KEY", "sk-prefixed")

	tests := []struct {
		name     string
		prefix   string
		secret   string
		expected string
	}{
		{"no prefix underscore", "", "openai_api_key", "sk-env"},
		{"no prefix hyphen", "", "openai-api-key", "sk-env"},
		{"prefixed", "EXTRACTOR_SECRET_", "openai_api_key", "sk-prefixed"},
		{"already upper", "", "OPENAI_API_KEY", "sk-env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewEnvProvider(tt.prefix)
			got, err := p.GetSecret(context.Background(), tt.secret)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestEnvProvider_GetSecret_NotFound(t *testing.T) {
	t.Setenv("EMPTY_SECRET", "")

	p := NewEnvProvider("")
	for _, name := range []string{"definitely_unset_secret_xyz", "empty_secret"} {
		_, err := p.GetSecret(context.Background(), name)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestEnvProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnvProvider("").GetSecret(ctx, "anything")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnvProvider_ListSecrets(t *testing.T) {
	p := NewEnvProvider("APP_")
	p.environ = func() []string {
		return []string{
			"APP_OPENAI_API_KEY=sk",
			"APP_EMPTY=",
			"APP_DB_PASSWORD=pw",
			"HOME=/root",
			"MALFORMED",
		}
	}

	got, err := p.ListSecrets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"db_password", "openai_api_key"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestEnvProvider_Metadata(t *testing.T) {
	p := NewEnvProvider("")
	if p.Provider() != "env" {
		t.Errorf("expected provider 'env', got %q", p.Provider())
	}
	if !p.Supports("openai_api_key") {
		t.Error("expected env provider to support any name")
	}
	if p.Supports("") {
		t.Error("expected empty name to be unsupported")
	}
}
