package secrets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// secretManagerAPI is the slice of the Secret Manager client the provider uses.
type secretManagerAPI interface {
	access(ctx context.Context, resource string) ([]byte, error)
	list(ctx context.Context, parent string) ([]string, error)
	close() error
}

type gcpClient struct {
	c *secretmanager.Client
}

func (g *gcpClient) access(ctx context.Context, resource string) ([]byte, error) {
	resp, err := g.c.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: resource})
	if err != nil {
		return nil, err
	}
	return resp.GetPayload().GetData(), nil
}

func (g *gcpClient) list(ctx context.Context, parent string) ([]string, error) {
	it := g.c.ListSecrets(ctx, &secretmanagerpb.ListSecretsRequest{Parent: parent})

	var names []string
	for {
		s, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, s.GetName())
	}
	return names, nil
}

func (g *gcpClient) close() error {
	return g.c.Close()
}

// GCPSecretManagerProvider reads the latest version of secrets stored in
// Google Cloud Secret Manager. Credentials come from Application Default
// Credentials.
type GCPSecretManagerProvider struct {
	Project string

	client secretManagerAPI
}

// NewGCPSecretManagerProvider dials Secret Manager for project.
func NewGCPSecretManagerProvider(ctx context.Context, project string) (*GCPSecretManagerProvider, error) {
	if project == "" {
		return nil, fmt.Errorf("%s: project is required", ProviderGCPSecretManager)
	}

	c, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: create client: %w", ProviderGCPSecretManager, err)
	}
	return newGCPSecretManagerProvider(project, &gcpClient{c: c}), nil
}

func newGCPSecretManagerProvider(project string, client secretManagerAPI) *GCPSecretManagerProvider {
	return &GCPSecretManagerProvider{Project: project, client: client}
}

// ResourceName returns the version resource read for name. Names already
// starting with "projects/" are returned unchanged.
func (p *GCPSecretManagerProvider) ResourceName(name string) string {
	if strings.HasPrefix(name, "projects/") {
		return name
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.Project, name)
}

// GetSecret accesses the secret's latest version.
func (p *GCPSecretManagerProvider) GetSecret(ctx context.Context, name string) (string, error) {
	resource := p.ResourceName(name)

	data, err := p.client.access(ctx, resource)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", notFound(ProviderGCPSecretManager, resource)
		}
		return "", fmt.Errorf("%s: access %s: %w", ProviderGCPSecretManager, resource, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ListSecrets returns the short names of the project's secrets.
func (p *GCPSecretManagerProvider) ListSecrets(ctx context.Context) ([]string, error) {
	full, err := p.client.list(ctx, "projects/"+p.Project)
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", ProviderGCPSecretManager, err)
	}

	names := make([]string, 0, len(full))
	for _, n := range full {
		if i := strings.LastIndex(n, "/secrets/"); i >= 0 {
			n = n[i+len("/secrets/"):]
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Provider returns "gcp_secret_manager".
func (p *GCPSecretManagerProvider) Provider() string {
	return ProviderGCPSecretManager
}

// Supports accepts any name when a project is set, and fully qualified
// names otherwise.
func (p *GCPSecretManagerProvider) Supports(name string) bool {
	if name == "" {
		return false
	}
	return p.Project != "" || strings.HasPrefix(name, "projects/")
}

// Close releases the client connection.
func (p *GCPSecretManagerProvider) Close() error {
	return p.client.close()
}
