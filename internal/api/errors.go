package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResponse is returned when a 2xx response that should carry a
// payload has no body.
var ErrEmptyResponse = errors.New("empty response body")

// Error is a non-2xx response. Message carries the server's "detail" when
// it sent one.
type Error struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(method, path string, status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP error %d", status)
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch d := payload.Detail.(type) {
		case string:
			if d != "" {
				msg = d
			}
		case nil:
		default:
			// Validation errors arrive as a list of objects.
			if raw, err := json.Marshal(d); err == nil {
				msg = string(raw)
			}
		}
	}
	return &Error{Status: status, Message: msg, Method: method, Path: path}
}

func hasStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a 409 response.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsUnauthorized reports whether err is a 401 or 403 response.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}
