package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by *Error through errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrServer       = errors.New("backend server error")
	ErrEmptyPath    = errors.New("request path cannot be empty")
	ErrEmptyBody    = errors.New("response body is empty")
)

// maxErrorBody caps how much of a response body is kept on an Error.
const maxErrorBody = 512

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Is lets callers classify failures by status without inspecting the code.
func (e *Error) Is(target error) bool {
	switch target { //nolint:errorlint // Comparing sentinel identities.
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

func newError(method, path string, status int, body []byte) *Error {
	text := string(body)
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return &Error{StatusCode: status, Method: method, Path: path, Body: text}
}
