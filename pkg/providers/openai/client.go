package openai

import (
	"context"
	"log/slog"
	"strings"

	"instructions-hq/extractor/pkg/providers"
)

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Provider is the OpenAI chat-completions adapter.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = "openai"
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
		}
	}

	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// SendCompletion sends a chat completion request to OpenAI.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	url := p.GetConfig().BaseURL + "/chat/completions"

	var openaiResp OpenAIResponse
	if err := p.DoJSONRequest(ctx, "POST", url, transformRequest(req), &openaiResp, p.authHeaders()); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&openaiResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.GetName(),
			Cause:    err,
		}
	}

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
		"finish_reason", resp.FinishReason,
	)

	return resp, nil
}

// HealthCheck lists models, which verifies both reachability and the API key.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return p.Probe(ctx, p.GetConfig().BaseURL+"/models", p.authHeaders())
}

func (p *Provider) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.GetConfig().APIKey,
	}
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}
	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}
	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}
	return nil
}

var _ providers.Provider = (*Provider)(nil)
