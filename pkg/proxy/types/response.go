package types

import "fmt"

// GenerateResponse is the success body of POST /generate.
type GenerateResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every error the API returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Fixed client-facing error messages.
const (
	MsgMissingFields    = "Missing userId or prompt"
	MsgMethodNotAllowed = "Method not allowed"
	MsgBodyTooLarge     = "Request body too large"
	MsgInternal         = "Internal server error"
	MsgNotFound         = "Not found"
)

// QuotaExceededMessage is the 429 message for a daily limit of limit.
func QuotaExceededMessage(limit int) string {
	return fmt.Sprintf("Daily GPT limit reached (%d/day)", limit)
}
