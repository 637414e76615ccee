package storeapi

import (
	"errors"
	"fmt"
)

// TransportError means the request never completed or the response was
// unparsable. Callers substitute a generic human-readable message; the
// raw cause is kept for logging only.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a well-formed response whose status field indicates
// failure. Message carries the server's text verbatim; it is escaped at
// presentation time, never trusted as markup.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// UserMessage maps an error to the string shown to the operator:
// the server's own message for application failures, the fallback for
// everything else.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
