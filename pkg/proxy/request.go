package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"instructions-hq/extractor/pkg/proxy/types"
)

const (
	// DefaultMaxBodyBytes bounds a request body when no limit is configured.
	DefaultMaxBodyBytes = 1 << 20

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

// rawGenerateRequest defers field decoding so that a non-string value is
// reported as missing instead of as a JSON type error.
type rawGenerateRequest struct {
	UserID json.RawMessage `json:"userId"`
	Prompt json.RawMessage `json:"prompt"`
}

// ParseGenerateRequest reads and validates a /generate body of at most
// maxBytes. Invalid JSON, a non-object body and missing, empty or
// non-string fields are all reported as *RequestError with status 400; an
// oversized body is 413. Whitespace-only values are accepted.
func ParseGenerateRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*types.GenerateRequest, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge(err)
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var raw rawGenerateRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errMissingFields(err)
	}

	userID, ok := stringField(raw.UserID)
	if !ok || userID == "" {
		return nil, errMissingFields(nil)
	}
	prompt, ok := stringField(raw.Prompt)
	if !ok || prompt == "" {
		return nil, errMissingFields(nil)
	}

	return &types.GenerateRequest{UserID: userID, Prompt: prompt}, nil
}

// stringField decodes a raw JSON value that must be a string.
func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ExtractRequestID returns the client-supplied request ID, or "" when the
// header is absent, longer than 128 bytes or not printable ASCII.
func ExtractRequestID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if len(id) > maxRequestIDLength {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return ""
		}
	}
	return id
}
