package seeweb

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"transport failure", &TransportError{Err: errors.New("connection refused")}, true},
		{"server error", &APIError{StatusCode: http.StatusInternalServerError}, true},
		{"bad gateway", &APIError{StatusCode: http.StatusBadGateway}, true},
		{"rate limited", &APIError{StatusCode: http.StatusTooManyRequests}, true},
		{"not found", &APIError{StatusCode: http.StatusNotFound}, false},
		{"bad request", &APIError{StatusCode: http.StatusBadRequest}, false},
		{"plain error", errors.New("boom"), false},
		{"wrapped transport", fmt.Errorf("list: %w", &TransportError{Err: errors.New("eof")}), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound}
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsRateLimited(notFound))
	assert.True(t, IsRateLimited(&APIError{StatusCode: http.StatusTooManyRequests}))
}

func TestNewAPIError_ParsesEnvelope(t *testing.T) {
	err := newAPIError(http.StatusConflict, []byte(`{"error": {"message": "server is locked"}}`))
	assert.Equal(t, "server is locked", err.Message)

	plain := newAPIError(http.StatusBadRequest, []byte("not json"))
	assert.Equal(t, "not json", plain.Message)
}

func TestIsActionFailed(t *testing.T) {
	err := fmt.Errorf("converge: %w", &ActionFailedError{ActionID: 9, Status: "error"})
	assert.True(t, IsActionFailed(err))
	assert.False(t, IsActionFailed(errors.New("other")))
}
