package proxy

import (
	"net/http"

	"instructions-hq/extractor/pkg/proxy/types"
)

// RequestError is a request the handler rejects before doing any work.
// Status is the HTTP status to answer with and Message the client-facing text.
type RequestError struct {
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

func errMissingFields(cause error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: types.MsgMissingFields, Cause: cause}
}

func errBodyTooLarge(cause error) *RequestError {
	return &RequestError{Status: http.StatusRequestEntityTooLarge, Message: types.MsgBodyTooLarge, Cause: cause}
}

// WriteRequestError writes err as a JSON error response.
func WriteRequestError(w http.ResponseWriter, err *RequestError) error {
	return WriteError(w, err.Status, err.Message)
}
