package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"instructions-hq/extractor/pkg/proxy/types"
	"instructions-hq/extractor/pkg/quota"
)

// Rate limit headers set on every quota-checked response.
const (
	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
	RateLimitResetHeader     = "X-RateLimit-Reset"
)

// WriteJSONResponse writes data as JSON with the given status code.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteError writes {"error": message} with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSONResponse(w, statusCode, types.ErrorResponse{Error: message})
}

// WriteGenerateResponse writes a 200 {"response": text}.
func WriteGenerateResponse(w http.ResponseWriter, text string) error {
	return WriteJSONResponse(w, http.StatusOK, types.GenerateResponse{Response: text})
}

// SetRateLimitHeaders reports the caller's quota state. Reset is the unix
// time of the next UTC midnight.
func SetRateLimitHeaders(w http.ResponseWriter, d quota.Decision) {
	h := w.Header()
	h.Set(RateLimitLimitHeader, strconv.Itoa(d.Limit))
	h.Set(RateLimitRemainingHeader, strconv.Itoa(d.Remaining()))
	h.Set(RateLimitResetHeader, strconv.FormatInt(d.ResetAt.Unix(), 10))
}
