package secrets

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeSecretManager struct {
	values    map[string]string
	names     []string
	accessErr error
	listErr   error
	accessed  []string
	closed    bool
}

func (f *fakeSecretManager) access(ctx context.Context, resource string) ([]byte, error) {
	f.accessed = append(f.accessed, resource)
	if f.accessErr != nil {
		return nil, f.accessErr
	}
	v, ok := f.values[resource]
	if !ok {
		return nil, status.Error(codes.NotFound, "secret not found")
	}
	return []byte(v), nil
}

func (f *fakeSecretManager) list(ctx context.Context, parent string) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeSecretManager) close() error {
	f.closed = true
	return nil
}

func TestGCPSecretManager_ResourceName(t *testing.T) {
	p := newGCPSecretManagerProvider("instructions-prod", &fakeSecretManager{})

	tests := []struct {
		name     string
		expected string
	}{
		{"openai_api_key", "projects/instructions-prod/secrets/openai_api_key/versions/latest"},
		{"projects/other/secrets/k/versions/3", "projects/other/secrets/k/versions/3"},
	}
	for _, tt := range tests {
		if got := p.ResourceName(tt.name); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, got)
		}
	}
}

func TestGCPSecretManager_GetSecret(t *testing.T) {
	fake := &fakeSecretManager{values: map[string]string{
		"projects/p/secrets/openai_api_key/versions/latest": "sk-gcp\n",
	}}
	p := newGCPSecretManagerProvider("p", fake)
	ctx := context.Background()

	got, err := p.GetSecret(ctx, "openai_api_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sk-gcp" {
		t.Errorf("expected 'sk-gcp', got %q", got)
	}

	_, err = p.GetSecret(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	fake.accessErr = status.Error(codes.PermissionDenied, "denied")
	_, err = p.GetSecret(ctx, "openai_api_key")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected non-not-found error, got %v", err)
	}
	if status.Code(errors.Unwrap(err)) != codes.PermissionDenied {
		t.Errorf("expected wrapped PermissionDenied, got %v", err)
	}
}

func TestGCPSecretManager_ListSecrets(t *testing.T) {
	fake := &fakeSecretManager{names: []string{
		"projects/p/secrets/zeta",
		"projects/p/secrets/openai_api_key",
	}}
	p := newGCPSecretManagerProvider("p", fake)

	got, err := p.ListSecrets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"openai_api_key", "zeta"}) {
		t.Errorf("unexpected names %v", got)
	}

	fake.listErr = errors.New("unavailable")
	if _, err := p.ListSecrets(context.Background()); err == nil {
		t.Error("expected list error")
	}
}

func TestGCPSecretManager_Supports(t *testing.T) {
	withProject := newGCPSecretManagerProvider("p", &fakeSecretManager{})
	withoutProject := newGCPSecretManagerProvider("", &fakeSecretManager{})

	if !withProject.Supports("openai_api_key") {
		t.Error("expected short names supported with a project")
	}
	if withoutProject.Supports("openai_api_key") {
		t.Error("expected short names unsupported without a project")
	}
	if !withoutProject.Supports("projects/p/secrets/k/versions/latest") {
		t.Error("expected qualified names supported without a project")
	}
	if withProject.Provider() != "gcp_secret_manager" {
		t.Errorf("unexpected provider %q", withProject.Provider())
	}
}

func TestNewGCPSecretManagerProvider_RequiresProject(t *testing.T) {
	if _, err := NewGCPSecretManagerProvider(context.Background(), ""); err == nil {
		t.Error("expected error for empty project")
	}
}
