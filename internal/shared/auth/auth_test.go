package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSetBearer(t *testing.T) {
	req := httptest.NewRequest("GET", "/table-booking", nil)
	require.True(t, SetBearer(req, "  T1 "))
	require.Equal(t, "Bearer T1", req.Header.Get("Authorization"))

	require.False(t, SetBearer(req, "   "))
	require.Empty(t, req.Header.Get("Authorization"))
}

func signed(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	out, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return out
}

func TestInspectorUnverified(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signed(t, "s3cret", Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(expires),
	}})

	info, err := NewInspector("").Inspect(raw)
	require.NoError(t, err)
	require.False(t, info.Verified)
	require.False(t, info.Opaque)
	require.Equal(t, "alice", info.Subject)
	require.Equal(t, "admin", info.Role)
	require.True(t, info.ExpiresAt.Equal(expires))
}

func TestInspectorVerifiesWithSecret(t *testing.T) {
	raw := signed(t, "s3cret", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}})

	info, err := NewInspector("s3cret").Inspect(raw)
	require.NoError(t, err)
	require.True(t, info.Verified)

	_, err = NewInspector("other").Inspect(raw)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestInspectorOpaqueToken(t *testing.T) {
	info, err := NewInspector("").Inspect("not-a-jwt")
	require.NoError(t, err)
	require.True(t, info.Opaque)

	_, err = NewInspector("").Inspect(" ")
	require.ErrorIs(t, err, ErrMissingToken)
}
