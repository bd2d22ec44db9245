package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/shared/metrics"
)

// MinPasswordLength is the shortest new password accepted by UpdatePassword.
const MinPasswordLength = 6

// LoginResult is a freshly written session and the view the user lands on.
type LoginResult struct {
	Session *domain.Session
	Landing string
}

// Lifecycle runs the login, logout and password flows that create and destroy sessions.
type Lifecycle struct {
	api      port.AuthAPI
	store    port.SessionStore
	notifier port.SessionNotifier
}

func NewLifecycle(api port.AuthAPI, store port.SessionStore, notifier port.SessionNotifier) *Lifecycle {
	return &Lifecycle{api: api, store: store, notifier: notifier}
}

func (l *Lifecycle) Login(ctx context.Context, variant domain.Variant, creds port.Credentials) (*LoginResult, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, variant)
	}
	if err := validateCredentials(variant, creds); err != nil {
		metrics.LoginsTotal.WithLabelValues(variant.String(), "invalid").Inc()
		return nil, err
	}

	token, profile, err := l.exchange(ctx, variant, creds)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(variant.String(), outcomeFor(err)).Inc()
		slog.Warn("login failed", slog.String("variant", variant.String()), slog.Any("error", err))
		return nil, err
	}

	if err := l.store.Write(ctx, variant, token, profile); err != nil {
		metrics.LoginsTotal.WithLabelValues(variant.String(), "malformed").Inc()
		return nil, err
	}
	l.notify(ctx, variant, domain.EventLogin)
	metrics.LoginsTotal.WithLabelValues(variant.String(), "success").Inc()
	slog.Info("login succeeded", slog.String("variant", variant.String()))

	return &LoginResult{
		Session: &domain.Session{Variant: variant, Token: token, Profile: profile},
		Landing: variant.LandingPath(),
	}, nil
}

// Logout clears the variant's session and returns its login view. Logging out without a
// session is not an error and notifies nobody.
func (l *Lifecycle) Logout(ctx context.Context, variant domain.Variant) (string, error) {
	if !variant.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownVariant, variant)
	}
	_, present := l.store.Read(ctx, variant)
	if err := l.store.Clear(ctx, variant); err != nil {
		return "", err
	}
	if present {
		l.notify(ctx, variant, domain.EventLogout)
	}
	slog.Info("logout", slog.String("variant", variant.String()), slog.Bool("hadSession", present))
	return variant.LoginPath(), nil
}

// UpdatePassword changes the admin password through the authenticated pipeline. The remote
// API only exposes this for admins.
func (l *Lifecycle) UpdatePassword(ctx context.Context, variant domain.Variant, current, next string) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownVariant, variant)
	}
	if variant != domain.VariantAdmin {
		return &domain.AuthError{Kind: domain.ErrUnsupportedVariant, Message: "Password changes are only available to administrators."}
	}
	if err := ValidatePasswordChange(current, next); err != nil {
		return err
	}

	session, ok := l.store.Read(ctx, domain.VariantAdmin)
	if !ok {
		return domain.NewAuthError(domain.ErrUnauthorized, "Please sign in again to change your password.")
	}
	username := domain.AdminProfileFrom(session.Profile).LoginName()
	if username == "" {
		return domain.NewAuthError(domain.ErrMalformedResponse, "Your session has no username. Please sign in again.")
	}

	if err := l.api.ChangeAdminPassword(ctx, username, current, next); err != nil {
		slog.Warn("password change failed", slog.Any("error", err))
		return err
	}
	slog.Info("password changed", slog.String("variant", variant.String()))
	return nil
}

// ValidatePasswordChange checks the fields of a password change before anything is sent.
func ValidatePasswordChange(current, next string) error {
	switch {
	case strings.TrimSpace(current) == "":
		return domain.NewAuthError(domain.ErrValidation, "Current password is required.")
	case strings.TrimSpace(next) == "":
		return domain.NewAuthError(domain.ErrValidation, "New password is required.")
	case len(next) < MinPasswordLength:
		return domain.NewAuthError(domain.ErrValidation, fmt.Sprintf("New password must be at least %d characters long.", MinPasswordLength))
	}
	return nil
}

// ConfirmPassword checks the confirmation field of a password form.
func ConfirmPassword(next, confirm string) error {
	if next != confirm {
		return domain.NewAuthError(domain.ErrValidation, "New password and confirmation do not match.")
	}
	return nil
}

func (l *Lifecycle) exchange(ctx context.Context, variant domain.Variant, creds port.Credentials) (string, domain.Profile, error) {
	if variant == domain.VariantAdmin {
		token, profile, err := l.api.AdminLogin(ctx, creds)
		if err != nil {
			return "", nil, err
		}
		return token, profile.Profile(), nil
	}
	return l.api.RestaurantLogin(ctx, creds)
}

func (l *Lifecycle) notify(ctx context.Context, variant domain.Variant, kind domain.EventKind) {
	if l.notifier != nil {
		l.notifier.Notify(ctx, variant, kind)
	}
}

func validateCredentials(variant domain.Variant, creds port.Credentials) error {
	if strings.TrimSpace(creds.Identifier) == "" {
		if variant == domain.VariantRestaurant {
			return domain.NewAuthError(domain.ErrValidation, "Please enter your email address.")
		}
		return domain.NewAuthError(domain.ErrValidation, "Please enter your username.")
	}
	if strings.TrimSpace(creds.Password) == "" {
		return domain.NewAuthError(domain.ErrValidation, "Please enter your password.")
	}
	return nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "rejected"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, domain.ErrUnreachable):
		return "unreachable"
	default:
		return "error"
	}
}
