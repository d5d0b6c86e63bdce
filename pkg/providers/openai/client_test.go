package openai

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	testhelpers "instructions-hq/extractor/internal/providers"
	"instructions-hq/extractor/pkg/providers"
)

func newTestProvider(t *testing.T, mock *testhelpers.MockServer) *Provider {
	t.Helper()
	provider, err := NewProvider(testhelpers.TestConfigWithURL("openai", mock.URL()+"/v1"))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestOpenAIProvider_SendCompletion(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockOpenAIResponse("# Pancakes\n\n## Steps\n1. Mix", "gpt-4.1-nano"),
	})

	provider := newTestProvider(t, mock)

	req := testhelpers.TestCompletionRequest("gpt-4.1-nano",
		providers.Message{Role: providers.RoleSystem, Content: "extract"},
		providers.Message{Role: providers.RoleUser, Content: "page text"},
	)

	resp, err := provider.SendCompletion(context.Background(), req)
	if err != nil {
		t.Fatalf("SendCompletion failed: %v", err)
	}

	if resp.Content != "# Pancakes\n\n## Steps\n1. Mix" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("expected total tokens 30, got %d", resp.Usage.TotalTokens)
	}
	if resp.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", providers.FinishReasonStop, resp.FinishReason)
	}

	recorded, ok := mock.LastRequest()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if err := testhelpers.ExpectHeader(recorded, "Authorization", "Bearer test-key"); err != nil {
		t.Error(err)
	}

	var sent OpenAIRequest
	if err := json.Unmarshal(recorded.Body, &sent); err != nil {
		t.Fatalf("failed to decode sent body: %v", err)
	}
	if sent.Model != "gpt-4.1-nano" || sent.N != 1 {
		t.Errorf("unexpected request %+v", sent)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != "system" || sent.Messages[1].Content != "page text" {
		t.Errorf("unexpected messages %+v", sent.Messages)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response testhelpers.MockResponse
		expected interface{}
	}{
		{"auth", testhelpers.MockAuthError(), &providers.AuthError{}},
		{"rate limit", testhelpers.MockRateLimitError(30), &providers.RateLimitError{}},
		{"server error", testhelpers.MockServerError(), &providers.ProviderError{}},
		{"no choices", testhelpers.MockResponse{StatusCode: 200, Body: `{"id":"x","choices":[]}`}, &providers.ParseError{}},
		{"not json", testhelpers.MockResponse{StatusCode: 200, Body: `<html>`}, &providers.ParseError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewMockServer()
			defer mock.Close()
			mock.SetResponse("/v1/chat/completions", tt.response)

			provider := newTestProvider(t, mock)

			_, err := provider.SendCompletion(context.Background(),
				testhelpers.TestCompletionRequest("gpt-4.1-nano", providers.Message{Role: "user", Content: "x"}))
			testhelpers.AssertErrorType(t, err, tt.expected)

			if mock.GetRequestCount() != 1 {
				t.Errorf("expected exactly 1 request, got %d", mock.GetRequestCount())
			}
		})
	}
}

func TestOpenAIProvider_Timeout(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/chat/completions", testhelpers.MockTimeoutError(2*time.Second))

	provider := newTestProvider(t, mock)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := provider.SendCompletion(ctx,
		testhelpers.TestCompletionRequest("gpt-4.1-nano", providers.Message{Role: "user", Content: "x"}))
	testhelpers.AssertErrorType(t, err, &providers.TimeoutError{})
}

func TestOpenAIProvider_Validation(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	provider := newTestProvider(t, mock)

	tests := []struct {
		name string
		req  *providers.CompletionRequest
	}{
		{"nil request", nil},
		{"no model", &providers.CompletionRequest{Messages: []providers.Message{{Role: "user", Content: "x"}}}},
		{"no messages", &providers.CompletionRequest{Model: "gpt-4.1-nano"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.SendCompletion(context.Background(), tt.req)
			testhelpers.AssertErrorType(t, err, &providers.ValidationError{})
		})
	}

	if mock.GetRequestCount() != 0 {
		t.Errorf("expected no upstream requests, got %d", mock.GetRequestCount())
	}
}

func TestOpenAIProvider_HealthCheck(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/models", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockOpenAIModels("gpt-4.1-nano"),
	})

	provider := newTestProvider(t, mock)

	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}

	mock.SetResponse("/v1/models", testhelpers.MockAuthError())
	err := provider.HealthCheck(context.Background())
	testhelpers.AssertErrorType(t, err, &providers.AuthError{})
}

func TestNewProvider_Config(t *testing.T) {
	if _, err := NewProvider(providers.ProviderConfig{Name: "openai"}); err == nil {
		t.Error("expected error without API key")
	}

	p, err := NewProvider(providers.ProviderConfig{APIKey: "k", BaseURL: "http://example.com/v1/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	if p.GetName() != "openai" {
		t.Errorf("expected default name openai, got %q", p.GetName())
	}
	if p.GetConfig().BaseURL != "http://example.com/v1" {
		t.Errorf("expected trailing slash trimmed, got %q", p.GetConfig().BaseURL)
	}
}

func TestTransformResponse(t *testing.T) {
	_, err := transformResponse(&OpenAIResponse{})
	if err != errNoChoices {
		t.Errorf("expected errNoChoices, got %v", err)
	}

	resp, err := transformResponse(&OpenAIResponse{
		Model: "m",
		Choices: []OpenAIChoice{
			{Message: OpenAIMessage{Content: "first"}, FinishReason: "length"},
			{Message: OpenAIMessage{Content: "second"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "first" {
		t.Errorf("expected first choice, got %q", resp.Content)
	}
	if resp.FinishReason != providers.FinishReasonLength {
		t.Errorf("expected length, got %q", resp.FinishReason)
	}
}
