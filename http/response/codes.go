package response

import "net/http"

func NewHTTPError(status int, message any) *HTTPError {
	if message == nil || message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message}
}

// Wrap attaches a cause that is logged but never shown to the client.
func Wrap(status int, message any, err error) *HTTPError {
	he := NewHTTPError(status, message)
	he.Err = err
	return he
}

func BadRequest(message any) *HTTPError { return NewHTTPError(http.StatusBadRequest, message) }

func NotFound(message any) *HTTPError { return NewHTTPError(http.StatusNotFound, message) }

func Conflict(message any) *HTTPError { return NewHTTPError(http.StatusConflict, message) }

func TooManyRequests(message any) *HTTPError {
	return NewHTTPError(http.StatusTooManyRequests, message)
}

func ServiceUnavailable(message any) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message)
}
