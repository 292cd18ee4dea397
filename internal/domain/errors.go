package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for remote fetches
var (
	// ErrInvalidRequest indicates the resource descriptor could not be turned into a request
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoResponseData indicates the server answered without a usable body
	ErrNoResponseData = errors.New("no response data")
)

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// DecodeError wraps a response body that could not be parsed
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "failed to decode response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// TransportError wraps a failure to reach the server at all
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "network failure: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// StoreError wraps a failure in the local cache
type StoreError struct {
	Op  string // "save movies", "load detail", ...
	Err error
}

func (e *StoreError) Error() string { return "cache " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// Describe returns a human-readable message for an error surfaced to the user
func Describe(err error) string {
	var (
		statusErr    *StatusError
		decodeErr    *DecodeError
		transportErr *TransportError
		storeErr     *StoreError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return "The request was invalid."
	case errors.Is(err, ErrNoResponseData):
		return "The server returned no data."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The server responded with an error (%d).", statusErr.Code)
	case errors.As(err, &decodeErr):
		return "The server response could not be read."
	case errors.As(err, &transportErr):
		return "Could not reach the server. Check your connection."
	case errors.As(err, &storeErr):
		return "The local cache could not be read."
	default:
		return err.Error()
	}
}
