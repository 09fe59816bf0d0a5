package fit

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory       = errors.New("unknown fit category")
	ErrMissingMeasurement    = errors.New("missing measurement")
	ErrUnexpectedMeasurement = errors.New("unexpected measurement")
	// ErrBuildRequest marks transport failures that happened before anything
	// was sent. Transports wrap request construction errors with it.
	ErrBuildRequest = errors.New("build request")
)

// ErrorKind classifies a failed scorer call.
type ErrorKind string

const (
	APIError     ErrorKind = "api_error"
	NetworkError ErrorKind = "network_error"
	UnknownError ErrorKind = "unknown_error"
)

const (
	networkErrorMessage = "Network error: Unable to reach API"
	apiErrorMessage     = "API Error"
	unknownErrorMessage = "Unknown error occurred"
)

// Error is the failure half of a Result. Message is safe to log; it is not
// meant for end users (see GenerateMessage).
type Error struct {
	Kind    ErrorKind `json:"type"`
	Status  int       `json:"status,omitempty"`
	Message string    `json:"message"`

	cause error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newAPIError(status int, message string) *Error {
	if message == "" {
		message = apiErrorMessage
	}
	return &Error{Kind: APIError, Status: status, Message: message}
}

func newNetworkError(cause error) *Error {
	return &Error{Kind: NetworkError, Message: networkErrorMessage, cause: cause}
}

func newUnknownError(cause error) *Error {
	message := unknownErrorMessage
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}
	return &Error{Kind: UnknownError, Message: message, cause: cause}
}
