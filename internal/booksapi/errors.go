package booksapi

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned before any request is sent when a page,
// page size or record key is out of range.
var ErrInvalidArgument = errors.New("invalid argument")

// TransportError means the request never completed: DNS, connection
// refused, timeout, cancelled context.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Message is the backend's explanation, taken from the JSON "message"
	// field, then "error", then a generic "HTTP <status>" text.
	Message string
	// Code is the JSON "error" field when both it and "message" are present.
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("books API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// DecodeError means the backend reported success but the body did not
// have the expected shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
