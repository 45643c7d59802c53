package response

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error that knows how it should be rendered.
// Message is a string, a list of strings, or any JSON-encodable body.
type HTTPError struct {
	Status  int
	Message any
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %v: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %v", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// AsHTTPError resolves any error to the status and message the client sees.
// Errors that are not *HTTPError become 500 with a generic message.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}

// messageOf unwraps bodies that carry their own "message" field.
func messageOf(m any) any {
	if obj, ok := m.(map[string]any); ok {
		if inner, found := obj["message"]; found {
			return inner
		}
	}
	return m
}
