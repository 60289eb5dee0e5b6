package seeweb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("seeweb API error (status %d): %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	// The API wraps error details in a {"error": {"message": ...}} envelope,
	// but not consistently across endpoints.
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}
	return &APIError{StatusCode: status, Message: msg}
}

// TransportError is a network-level failure: the request never produced an
// HTTP response. Always transient.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the provider.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsRateLimited reports whether err is a 429 from the provider.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

// IsTransient reports whether err is worth retrying: network failures,
// rate limiting, and provider 5xx responses. Client-side errors (4xx other
// than 429) are not transient.
func IsTransient(err error) bool {
	var transport *TransportError
	if errors.As(err, &transport) {
		return true
	}
	var api *APIError
	if errors.As(err, &api) {
		return api.StatusCode >= 500 || api.StatusCode == http.StatusTooManyRequests
	}
	return false
}

func hasStatus(err error, status int) bool {
	var api *APIError
	return errors.As(err, &api) && api.StatusCode == status
}

// ActionFailedError is an explicit error status reported by the provider
// for an asynchronous action. The underlying operation must not be blindly
// re-submitted.
type ActionFailedError struct {
	ActionID int64
	Status   string
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("seeweb action %d failed (status %q)", e.ActionID, e.Status)
}

// IsActionFailed reports whether err is a failed provider action.
func IsActionFailed(err error) bool {
	var af *ActionFailedError
	return errors.As(err, &af)
}
