package providers

import "context"

// Provider is the interface implemented by language-model backends.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must return promptly when the context is done and must not
// retry on their own: a failed call is reported to the caller as-is.
//
// Example usage:
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := provider.SendCompletion(ctx, &CompletionRequest{
//	    Model: "gpt-4.1-nano",
//	    Messages: []Message{
//	        {Role: RoleSystem, Content: instruction},
//	        {Role: RoleUser, Content: pageText},
//	    },
//	})
type Provider interface {
	// SendCompletion sends one chat completion request and returns the
	// normalized response. Exactly one upstream attempt is made.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// HealthCheck sends a lightweight request to verify the backend is
	// reachable and accepts the configured credentials.
	HealthCheck(ctx context.Context) error

	// GetName returns the provider's configured name.
	GetName() string

	// IsHealthy returns the passive health status derived from recent calls.
	IsHealthy() bool

	// GetHealth returns detailed health information.
	GetHealth() ProviderHealth

	// Close releases idle connections. The provider must not be used afterwards.
	Close() error
}
