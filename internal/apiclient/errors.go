package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx (or success=false) answer from the backend.
type Error struct {
	Status  int
	Message string
	Body    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// UserMessage is the backend-provided text suitable for a toast.
func (e *Error) UserMessage() string {
	return e.Message
}

// Unauthorized reports a rejected or missing bearer token.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func newError(status int, raw []byte) *Error {
	e := &Error{Status: status, Body: string(raw)}

	var body struct {
		Message string   `json:"message"`
		Title   string   `json:"title"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			e.Message = body.Message
		case len(body.Errors) > 0:
			e.Message = strings.Join(body.Errors, "; ")
		case body.Title != "":
			e.Message = body.Title
		}
	}
	return e
}

// TransportError wraps a network-level failure.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SchemaError means the backend answered 2xx with a body that does not match
// what the caller expects.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed backend response: %s: %v", e.Reason, e.Err)
	}
	return "malformed backend response: " + e.Reason
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err carries a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
