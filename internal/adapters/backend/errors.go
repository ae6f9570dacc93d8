package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid backend config")
	ErrTokenExpired  = errors.New("token expired")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrUpstream      = errors.New("upstream error")
)

// StatusError is returned for non-2xx responses. Its message is the response
// body text, or "request failed: <status>" when the body is empty.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string { return e.Message }

// Unwrap maps the status code onto a sentinel kind.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUpstream
	}
}

func newStatusError(code int, body []byte) *StatusError {
	msg := string(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d", code)
	}
	return &StatusError{StatusCode: code, Message: msg}
}
