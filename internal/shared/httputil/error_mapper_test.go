package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errBadCredentials = errors.New("invalid credentials")

func TestErrorMapperMap(t *testing.T) {
	mapper := NewErrorMapper().
		WithMapping(errBadCredentials, http.StatusUnauthorized, "").
		WithDefault(http.StatusBadGateway, "upstream failure")

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "nil", err: nil, status: http.StatusOK},
		{name: "wrapped mapping passes message", err: fmt.Errorf("%w: Unauthorized user", errBadCredentials), status: http.StatusUnauthorized, message: "invalid credentials: Unauthorized user"},
		{name: "deadline", err: fmt.Errorf("login: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout, message: "request timeout"},
		{name: "default", err: errors.New("boom"), status: http.StatusBadGateway, message: "upstream failure"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			info := mapper.Map(test.err)
			if info.Status != test.status {
				t.Fatalf("expected status %d, got %d", test.status, info.Status)
			}
			if info.Message != test.message {
				t.Fatalf("expected message %q, got %q", test.message, info.Message)
			}
		})
	}
}
