package types

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	// UserID identifies the caller for quota purposes. It is opaque and
	// compared byte for byte.
	UserID string `json:"userId"`

	// Prompt is the page text to extract instructions from.
	Prompt string `json:"prompt"`
}
