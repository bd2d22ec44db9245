package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
)

func newLifecycle(api *fakeAuthAPI) (*Lifecycle, *SessionStore, *recordingNotifier) {
	store := NewSessionStore(newFakeKV())
	notifier := &recordingNotifier{}
	return NewLifecycle(api, store, notifier), store, notifier
}

func TestLifecycle_RestaurantLoginWritesSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	api := &fakeAuthAPI{
		restaurantToken: "R1",
		restaurantData:  domain.Profile{"placeData": map[string]any{"placeId": "P9"}},
	}
	lifecycle, store, notifier := newLifecycle(api)

	result, err := lifecycle.Login(ctx, domain.VariantRestaurant, port.Credentials{Identifier: "cafe@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "/restaurant/bookings", result.Landing)
	require.Equal(t, "R1", result.Session.Token)

	session, ok := store.Read(ctx, domain.VariantRestaurant)
	require.True(t, ok)
	require.Equal(t, "P9", domain.PlaceID(session.Profile))
	require.Equal(t, []notification{{variant: domain.VariantRestaurant, kind: domain.EventLogin}}, notifier.all())
}

func TestLifecycle_AdminLoginStoresProfileShape(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	api := &fakeAuthAPI{
		adminToken:   "A1",
		adminProfile: domain.AdminProfile{Username: "alice", Name: "alice", IsAdmin: true},
	}
	lifecycle, store, _ := newLifecycle(api)

	result, err := lifecycle.Login(ctx, domain.VariantAdmin, port.Credentials{Identifier: "alice", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "/dashboard", result.Landing)

	session, ok := store.Read(ctx, domain.VariantAdmin)
	require.True(t, ok)
	require.Equal(t, "alice", session.Profile["username"])
	require.Equal(t, true, session.Profile["isAdmin"])
	require.Contains(t, session.Profile, "adminData")
}

func TestLifecycle_FailedLoginLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rejected := &domain.AuthError{Kind: domain.ErrInvalidCredentials, Message: "Unauthorized user", Status: 400}
	lifecycle, store, notifier := newLifecycle(&fakeAuthAPI{err: rejected})

	_, err := lifecycle.Login(ctx, domain.VariantRestaurant, port.Credentials{Identifier: "x", Password: "y"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	require.Equal(t, "Unauthorized user", domain.UserMessage(err))

	_, ok := store.Read(ctx, domain.VariantRestaurant)
	require.False(t, ok)
	require.Empty(t, notifier.all())
}

func TestLifecycle_LoginWithoutTokenIsMalformed(t *testing.T) {
	t.Parallel()

	lifecycle, _, notifier := newLifecycle(&fakeAuthAPI{restaurantData: domain.Profile{"id": "P1"}})

	_, err := lifecycle.Login(context.Background(), domain.VariantRestaurant, port.Credentials{Identifier: "x", Password: "y"})
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
	require.Empty(t, notifier.all())
}

func TestLifecycle_LoginValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		variant domain.Variant
		creds   port.Credentials
		message string
	}{
		{name: "restaurant email", variant: domain.VariantRestaurant, creds: port.Credentials{Password: "pw"}, message: "Please enter your email address."},
		{name: "admin username", variant: domain.VariantAdmin, creds: port.Credentials{Identifier: "  ", Password: "pw"}, message: "Please enter your username."},
		{name: "password", variant: domain.VariantAdmin, creds: port.Credentials{Identifier: "alice", Password: " "}, message: "Please enter your password."},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			api := &fakeAuthAPI{}
			lifecycle, _, _ := newLifecycle(api)
			_, err := lifecycle.Login(context.Background(), tc.variant, tc.creds)
			require.ErrorIs(t, err, domain.ErrValidation)
			require.Equal(t, tc.message, domain.UserMessage(err))
			require.Zero(t, api.loginCalls, "nothing is sent when validation fails")
		})
	}
}

func TestLifecycle_LogoutClearsOnlyThatVariant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lifecycle, store, notifier := newLifecycle(&fakeAuthAPI{})
	writeSession(t, store, domain.VariantAdmin, "A1", domain.Profile{"username": "alice"})
	writeSession(t, store, domain.VariantRestaurant, "R1", domain.Profile{"id": "P1"})

	location, err := lifecycle.Logout(ctx, domain.VariantRestaurant)
	require.NoError(t, err)
	require.Equal(t, "/restaurant/login", location)

	_, ok := store.Read(ctx, domain.VariantRestaurant)
	require.False(t, ok)
	_, ok = store.Read(ctx, domain.VariantAdmin)
	require.True(t, ok)
	require.Equal(t, []notification{{variant: domain.VariantRestaurant, kind: domain.EventLogout}}, notifier.all())

	_, err = lifecycle.Logout(ctx, domain.Variant("guest"))
	require.ErrorIs(t, err, domain.ErrUnknownVariant)
}

func TestLifecycle_LogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lifecycle, store, notifier := newLifecycle(&fakeAuthAPI{})
	writeSession(t, store, domain.VariantAdmin, "A1", domain.Profile{"username": "alice"})

	for i := 0; i < 3; i++ {
		location, err := lifecycle.Logout(ctx, domain.VariantAdmin)
		require.NoError(t, err)
		require.Equal(t, "/login", location)
		_, ok := store.Read(ctx, domain.VariantAdmin)
		require.False(t, ok)
	}
	require.Equal(t, []notification{{variant: domain.VariantAdmin, kind: domain.EventLogout}}, notifier.all())
}

func TestLifecycle_LogoutWithoutSessionNotifiesNobody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lifecycle, store, notifier := newLifecycle(&fakeAuthAPI{})

	location, err := lifecycle.Logout(ctx, domain.VariantAdmin)
	require.NoError(t, err)
	require.Equal(t, "/login", location)
	location, err = lifecycle.Logout(ctx, domain.VariantAdmin)
	require.NoError(t, err)
	require.Equal(t, "/login", location)

	_, ok := store.Read(ctx, domain.VariantAdmin)
	require.False(t, ok)
	require.Empty(t, notifier.all())
}

func TestLifecycle_UpdatePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	api := &fakeAuthAPI{}
	lifecycle, store, _ := newLifecycle(api)

	err := lifecycle.UpdatePassword(ctx, domain.VariantAdmin, "old-secret", "new-secret")
	require.ErrorIs(t, err, domain.ErrUnauthorized, "no admin session")

	writeSession(t, store, domain.VariantAdmin, "A1", domain.AdminProfile{Username: "alice", Name: "alice", IsAdmin: true}.Profile())

	require.NoError(t, lifecycle.UpdatePassword(ctx, domain.VariantAdmin, "old-secret", "new-secret"))
	require.Equal(t, []string{"alice:old-secret:new-secret"}, api.passwordCalls)

	api.passwordErr = domain.ErrUnauthorized
	require.ErrorIs(t, lifecycle.UpdatePassword(ctx, domain.VariantAdmin, "old-secret", "new-secret"), domain.ErrUnauthorized)
}

func TestLifecycle_UpdatePasswordRejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	api := &fakeAuthAPI{}
	lifecycle, store, _ := newLifecycle(api)
	writeSession(t, store, domain.VariantAdmin, "A1", domain.Profile{"username": "alice"})

	require.ErrorIs(t, lifecycle.UpdatePassword(ctx, domain.VariantRestaurant, "old", "new-secret"), domain.ErrUnsupportedVariant)
	require.ErrorIs(t, lifecycle.UpdatePassword(ctx, domain.VariantAdmin, "", "new-secret"), domain.ErrValidation)
	require.ErrorIs(t, lifecycle.UpdatePassword(ctx, domain.VariantAdmin, "old", "short"), domain.ErrValidation)
	require.Empty(t, api.passwordCalls)

	require.ErrorIs(t, ConfirmPassword("new-secret", "new-secrets"), domain.ErrValidation)
	require.NoError(t, ConfirmPassword("new-secret", "new-secret"))
}

func TestOutcomeFor(t *testing.T) {
	t.Parallel()

	if got := outcomeFor(domain.NewAuthError(domain.ErrUnreachable, "")); got != "unreachable" {
		t.Fatalf("unexpected outcome: %s", got)
	}
	if got := outcomeFor(errors.New("other")); got != "error" {
		t.Fatalf("unexpected outcome: %s", got)
	}
}
