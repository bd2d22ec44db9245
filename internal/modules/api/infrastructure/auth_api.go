package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"dareNowConsole/internal/modules/session/application/port"
	sessiondomain "dareNowConsole/internal/modules/session/domain"
)

// AuthAPI implements the login and password endpoints of the remote API on top of the pipeline.
type AuthAPI struct {
	pipeline *Pipeline
}

func NewAuthAPI(pipeline *Pipeline) *AuthAPI {
	return &AuthAPI{pipeline: pipeline}
}

func (a *AuthAPI) AdminLogin(ctx context.Context, creds port.Credentials) (string, sessiondomain.AdminProfile, error) {
	path := "/admin/login/username/" + url.PathEscape(strings.TrimSpace(creds.Identifier)) +
		"/password/" + url.PathEscape(creds.Password)

	resp, err := a.pipeline.Do(ctx, Request{Method: http.MethodGet, Path: path, SkipTeardown: true})
	if err != nil {
		return "", sessiondomain.AdminProfile{}, loginError(err, sessiondomain.VariantAdmin)
	}
	payload, err := resp.Raw()
	if err != nil {
		return "", sessiondomain.AdminProfile{}, err
	}
	token, profile, err := sessiondomain.ParseAdminLogin(payload, creds.Identifier)
	if err != nil {
		return "", sessiondomain.AdminProfile{}, &sessiondomain.AuthError{Kind: sessiondomain.ErrMalformedResponse, Message: "Invalid response from server. Please try again.", Err: err}
	}
	return token, profile, nil
}

func (a *AuthAPI) RestaurantLogin(ctx context.Context, creds port.Credentials) (string, sessiondomain.Profile, error) {
	path := "/place/login/email/" + url.PathEscape(strings.TrimSpace(creds.Identifier)) +
		"/password/" + url.PathEscape(creds.Password)

	resp, err := a.pipeline.Do(ctx, Request{Method: http.MethodGet, Path: path, SkipTeardown: true})
	if err != nil {
		return "", nil, loginError(err, sessiondomain.VariantRestaurant)
	}
	payload, err := resp.Raw()
	if err != nil {
		return "", nil, err
	}
	token, profile, err := sessiondomain.ParseRestaurantLogin(payload)
	if err != nil {
		return "", nil, &sessiondomain.AuthError{Kind: sessiondomain.ErrMalformedResponse, Message: "Invalid response from server. Please try again.", Err: err}
	}
	return token, profile, nil
}

// ChangeAdminPassword goes through the regular pipeline, so a 401 here logs the admin out.
func (a *AuthAPI) ChangeAdminPassword(ctx context.Context, username, current, next string) error {
	path := "/admin/changePassword/username/" + url.PathEscape(username) +
		"/currentpassword/" + url.PathEscape(current) +
		"/newPassword/" + url.PathEscape(next)

	_, err := a.pipeline.Do(ctx, Request{Method: http.MethodPut, Path: path})
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	switch {
	case statusErr.Status == http.StatusUnauthorized:
		return &sessiondomain.AuthError{Kind: sessiondomain.ErrUnauthorized, Message: "Your session has expired. Please sign in again.", Status: statusErr.Status, Err: err}
	case statusErr.Status == http.StatusBadRequest:
		return &sessiondomain.AuthError{Kind: sessiondomain.ErrValidation, Message: messageOr(statusErr.Message, "Invalid request. Please check your input."), Status: statusErr.Status, Err: err}
	case statusErr.Status >= http.StatusInternalServerError:
		return &sessiondomain.AuthError{Kind: sessiondomain.ErrUnreachable, Message: "Something went wrong", Status: statusErr.Status, Err: err}
	default:
		return &sessiondomain.AuthError{Kind: sessiondomain.ErrInvalidCredentials, Message: messageOr(statusErr.Message, "Failed to update password"), Status: statusErr.Status, Err: err}
	}
}

// loginError maps a failed login exchange. Rejections do not carry the status error, so a
// 401 login never reads as an expired session. The place endpoint answers 400 for unknown
// accounts and its message is not meant for users.
func loginError(err error, variant sessiondomain.Variant) error {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	if statusErr.Status >= http.StatusInternalServerError {
		return &sessiondomain.AuthError{Kind: sessiondomain.ErrUnreachable, Message: "The server could not be reached. Please try again.", Status: statusErr.Status, Err: err}
	}
	message := messageOr(statusErr.Message, "Login failed. Please check your credentials and try again.")
	if variant == sessiondomain.VariantRestaurant && statusErr.Status == http.StatusBadRequest {
		message = "Unauthorized user"
	}
	return &sessiondomain.AuthError{Kind: sessiondomain.ErrInvalidCredentials, Message: message, Status: statusErr.Status}
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}

var _ port.AuthAPI = (*AuthAPI)(nil)
