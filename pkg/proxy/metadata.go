package proxy

import (
	"net/http"
	"time"

	"instructions-hq/extractor/pkg/proxy/types"
)

// RequestMetadata is what the service records about a /generate call. It
// carries the prompt length only; the prompt text itself is never kept.
type RequestMetadata struct {
	RequestID    string
	UserID       string
	PromptLength int
	Method       string
	Path         string
	RemoteAddr   string
	UserAgent    string
	Timestamp    time.Time
}

// ExtractRequestMetadata collects metadata from r and, when parsing
// succeeded, from req.
func ExtractRequestMetadata(r *http.Request, req *types.GenerateRequest, requestID string, now time.Time) RequestMetadata {
	md := RequestMetadata{
		RequestID:  requestID,
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
		Timestamp:  now,
	}
	if req != nil {
		md.UserID = req.UserID
		md.PromptLength = len(req.Prompt)
	}
	return md
}

// LogAttrs returns the metadata as slog key/value pairs.
func (m RequestMetadata) LogAttrs() []any {
	return []any{
		"request_id", m.RequestID,
		"user_id", m.UserID,
		"prompt_length", m.PromptLength,
		"remote_addr", m.RemoteAddr,
	}
}
