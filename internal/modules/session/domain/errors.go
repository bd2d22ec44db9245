package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials means the remote API rejected a login exchange.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnreachable covers network and decode failures talking to the remote API.
	ErrUnreachable = errors.New("remote api unreachable")
	// ErrMalformedResponse means a nominally successful response lacked the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnauthorized is a 401 on an authenticated call: the session expired or was revoked.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation reports client-side field problems; nothing was sent.
	ErrValidation = errors.New("validation failed")
	// ErrUnsupportedVariant is returned for operations the variant has no endpoint for.
	ErrUnsupportedVariant = errors.New("operation unsupported for variant")
	ErrUnknownVariant     = errors.New("unknown session variant")
)

// AuthError carries the user-visible message of a failed session operation.
// errors.Is matches both Kind and the underlying cause.
type AuthError struct {
	Kind    error
	Message string
	Status  int
	Err     error
}

func NewAuthError(kind error, message string) *AuthError {
	return &AuthError{Kind: kind, Message: strings.TrimSpace(message)}
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		if e.Err != nil {
			return e.Kind.Error() + ": " + e.Err.Error()
		}
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage is the text shown next to the form that triggered the error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Login failed. Please check your credentials and try again."
	case errors.Is(err, ErrMalformedResponse):
		return "Invalid response from server. Please try again."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrUnreachable):
		return "The server could not be reached. Please try again."
	}
	return err.Error()
}
