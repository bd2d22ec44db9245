package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAdminLogin(t *testing.T) {
	t.Parallel()

	payload := map[string]any{"data": map[string]any{
		"token":     "T1",
		"adminData": map[string]any{"userName": "alice"},
	}}

	token, profile, err := ParseAdminLogin(payload, "ignored")
	require.NoError(t, err)
	require.Equal(t, "T1", token)
	require.Equal(t, "alice", profile.Username)
	require.Equal(t, "alice", profile.Name)
	require.True(t, profile.IsAdmin)
	require.Equal(t, "alice", profile.AdminData["userName"])
}

func TestParseAdminLoginFallsBackToSubmittedUsername(t *testing.T) {
	t.Parallel()

	token, profile, err := ParseAdminLogin(map[string]any{"data": map[string]any{"token": "T2"}}, " bob ")
	require.NoError(t, err)
	require.Equal(t, "T2", token)
	require.Equal(t, "bob", profile.Username)
	require.Nil(t, profile.AdminData)
	require.Nil(t, profile.Profile()["adminData"])
}

func TestParseAdminLoginMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"missing token": map[string]any{"data": map[string]any{"adminData": map[string]any{}}},
		"not an object": []any{"T1"},
		"nil":           nil,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseAdminLogin(payload, "alice")
			require.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestParseRestaurantLoginEnvelopes(t *testing.T) {
	t.Parallel()

	place := map[string]any{"placeId": "7", "name": "Blue Door"}
	tests := []struct {
		name    string
		payload map[string]any
	}{
		{name: "data envelope", payload: map[string]any{"data": map[string]any{"placeData": place, "token": "R1"}}},
		{name: "bare envelope", payload: map[string]any{"placeData": place, "token": "R1"}},
		{name: "token outside data", payload: map[string]any{"data": map[string]any{"placeData": place}, "token": "R1"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			token, profile, err := ParseRestaurantLogin(test.payload)
			require.NoError(t, err)
			require.Equal(t, "R1", token)
			require.NotContains(t, profile, "token")
			require.Equal(t, place, profile["placeData"])

			restaurant := RestaurantProfileFrom(profile)
			require.Equal(t, "7", restaurant.PlaceID)
			require.Equal(t, "Blue Door", restaurant.DisplayName())
		})
	}
}

func TestParseRestaurantLoginFlatPlace(t *testing.T) {
	t.Parallel()

	token, profile, err := ParseRestaurantLogin(map[string]any{"token": "R2", "id": float64(12), "name": "Flat"})
	require.NoError(t, err)
	require.Equal(t, "R2", token)
	require.Equal(t, "12", PlaceID(profile))
	require.Equal(t, "Flat", RestaurantProfileFrom(profile).Name)
}

func TestParseRestaurantLoginMalformed(t *testing.T) {
	t.Parallel()

	_, _, err := ParseRestaurantLogin(map[string]any{"placeData": map[string]any{"placeId": "1"}})
	require.ErrorIs(t, err, ErrMalformedResponse)

	_, _, err = ParseRestaurantLogin(map[string]any{"data": map[string]any{"token": "R1"}})
	require.ErrorIs(t, err, ErrMalformedResponse)

	_, _, err = ParseRestaurantLogin("nope")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestPlaceIDFallbackChain(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1", PlaceID(Profile{"placeData": map[string]any{"placeId": "1"}, "placeId": "2", "id": "3"}))
	require.Equal(t, "2", PlaceID(Profile{"placeData": map[string]any{}, "placeId": "2", "id": "3"}))
	require.Equal(t, "3", PlaceID(Profile{"id": "3"}))
	require.Equal(t, "", PlaceID(nil))
}

func TestAdminProfileRoundTrip(t *testing.T) {
	t.Parallel()

	original := AdminProfile{Username: "alice", Name: "alice", IsAdmin: true, AdminData: map[string]any{"userName": "alice"}}
	restored := AdminProfileFrom(original.Profile())
	require.Equal(t, original, restored)
	require.Equal(t, "alice", restored.LoginName())
	require.Equal(t, "alice", restored.DisplayName())
}
