package docstore

import "fmt"

// PublishError is the structured failure returned when a publish cannot
// complete. Only the write step surfaces one: read failures are recovered
// inside Publish by falling back to an empty base.
type PublishError struct {
	StatusCode int
	Body       string
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *PublishError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("publish error (status %d): %s: %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("publish error: %s", e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PublishError) Unwrap() error {
	return e.Cause
}

// newWriteRejectedError creates an error for a non-success store response,
// carrying the store's status and body
func newWriteRejectedError(statusCode int, body string) *PublishError {
	return &PublishError{
		StatusCode: statusCode,
		Body:       body,
		Message:    "document store rejected the update",
	}
}

// newWriteFailedError creates an error for a write that never got a response
func newWriteFailedError(cause error) *PublishError {
	return &PublishError{
		Message: "document store write failed",
		Cause:   cause,
	}
}
