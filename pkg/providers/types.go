package providers

import "time"

// Message represents a single chat message.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest represents a provider-agnostic completion request.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "gpt-4.1-nano")
	Model string `json:"model"`

	// Messages is the conversation, system instruction first
	Messages []Message `json:"messages"`

	// Temperature controls randomness (0 = provider default)
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens caps the completion length (0 = provider default)
	MaxTokens int `json:"max_tokens,omitempty"`

	// User is an optional end-user identifier forwarded for abuse monitoring
	User string `json:"user,omitempty"`
}

// CompletionResponse represents a provider-agnostic completion response.
type CompletionResponse struct {
	ID           string     `json:"id"`
	Model        string     `json:"model"`
	Content      string     `json:"content"`
	FinishReason string     `json:"finish_reason"`
	Usage        TokenUsage `json:"usage"`
	Created      int64      `json:"created"`
}

// ProviderHealth tracks the passive health status of a provider.
type ProviderHealth struct {
	// IsHealthy indicates whether the provider is currently healthy
	IsHealthy bool

	// LastCheck is the timestamp of the last health update
	LastCheck time.Time

	// LastError is the most recent error encountered (nil if healthy)
	LastError error

	// ConsecutiveFailures counts sequential failed calls
	ConsecutiveFailures int

	// LastSuccessfulRequest is the timestamp of the last successful request
	LastSuccessfulRequest time.Time

	// TotalRequests is the total number of requests sent to this provider
	TotalRequests int64

	// FailedRequests is the total number of failed requests
	FailedRequests int64
}

// ProviderConfig contains configuration for a single provider instance.
type ProviderConfig struct {
	// Name is the provider identifier used in logs and errors
	Name string

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the authentication key
	APIKey string

	// Timeout bounds a single HTTP exchange
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)

// unhealthyThreshold is the number of consecutive failures after which a
// provider is reported unhealthy.
const unhealthyThreshold = 3
