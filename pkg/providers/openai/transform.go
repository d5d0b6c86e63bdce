package openai

import (
	"errors"

	"instructions-hq/extractor/pkg/providers"
)

// OpenAIRequest represents an OpenAI chat completion request.
type OpenAIRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	User        string          `json:"user,omitempty"`
	N           int             `json:"n,omitempty"`
}

// OpenAIMessage represents a message in OpenAI format.
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIResponse represents an OpenAI chat completion response.
type OpenAIResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
	Usage   OpenAIUsage    `json:"usage"`
}

// OpenAIChoice represents a completion choice in OpenAI format.
type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// OpenAIUsage represents token usage in OpenAI format.
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

var errNoChoices = errors.New("no choices in response")

// transformRequest transforms a provider-agnostic request to OpenAI format.
func transformRequest(req *providers.CompletionRequest) *OpenAIRequest {
	openaiReq := &OpenAIRequest{
		Model:       req.Model,
		Messages:    make([]OpenAIMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		User:        req.User,
		N:           1,
	}

	for i, msg := range req.Messages {
		openaiReq.Messages[i] = OpenAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return openaiReq
}

// transformResponse takes the first choice of an OpenAI response.
func transformResponse(resp *OpenAIResponse) (*providers.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, errNoChoices
	}

	choice := resp.Choices[0]

	return &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: normalizeFinishReason(choice.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Created: resp.Created,
	}, nil
}

// normalizeFinishReason normalizes OpenAI finish reasons to provider-agnostic values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop":
		return providers.FinishReasonStop
	case "length":
		return providers.FinishReasonLength
	case "content_filter":
		return providers.FinishReasonContentFilter
	default:
		return reason
	}
}
