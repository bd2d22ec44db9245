package port

import (
	"context"

	"dareNowConsole/internal/modules/session/domain"
)

// Credentials are submitted by a login view. Identifier is the admin username or the
// restaurant email.
type Credentials struct {
	Identifier string
	Password   string
}

// AuthAPI is the remote API surface used by the session lifecycle. Login calls are
// credential exchanges and never carry a stored token.
type AuthAPI interface {
	AdminLogin(ctx context.Context, creds Credentials) (token string, profile domain.AdminProfile, err error)
	RestaurantLogin(ctx context.Context, creds Credentials) (token string, profile domain.Profile, err error)
	ChangeAdminPassword(ctx context.Context, username, current, next string) error
}
