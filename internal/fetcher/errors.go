package fetcher

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of failure for a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a transport-level error (connection refused, DNS, timeout, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeHTTP indicates the provider answered with a non-success status code
	ErrorTypeHTTP ErrorType = "http"
	// ErrorTypeProvider indicates a semantic error embedded in an otherwise successful response
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeNoData indicates the provider answered successfully but the observation list was empty
	ErrorTypeNoData ErrorType = "no_data"
)

// FetchError is the structured failure returned by every SeriesSource.
// Callers never crash on one: a fetch error means "no data for this
// series" and is absorbed as an empty series upstream.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a transport-level error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewHTTPError creates an error for a non-success status code
func NewHTTPError(statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrorTypeHTTP,
		StatusCode: statusCode,
		Message:    "provider returned an error status",
	}
}

// NewProviderError creates an error for a provider-reported semantic failure,
// such as an error code embedded in a 200 response
func NewProviderError(code int, message string) *FetchError {
	if message == "" {
		message = "provider reported an error"
	}
	if code != 0 {
		message = fmt.Sprintf("%s (code %d)", message, code)
	}
	return &FetchError{
		Type:    ErrorTypeProvider,
		Message: message,
	}
}

// NewNoDataError creates an error for an empty observation list
func NewNoDataError(seriesID string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNoData,
		Message: fmt.Sprintf("no observations returned for series %s", seriesID),
	}
}

// IsNoData reports whether err is a no-data fetch error
func IsNoData(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type == ErrorTypeNoData
}
