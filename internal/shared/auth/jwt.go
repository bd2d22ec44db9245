package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the subset of bearer token claims the console displays.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenInfo describes a stored bearer token. Tokens issued by the remote API are opaque to
// the session core; inspection is informational only and never gates admission.
type TokenInfo struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Verified  bool
	Opaque    bool
}

// Inspector decodes bearer tokens for display. With a secret configured the HMAC signature is
// verified; otherwise claims are read unverified.
type Inspector struct {
	secret []byte
}

func NewInspector(secret string) *Inspector {
	return &Inspector{secret: []byte(strings.TrimSpace(secret))}
}

func (i *Inspector) Inspect(token string) (*TokenInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	info := &TokenInfo{}
	if len(i.secret) > 0 {
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		}, jwt.WithLeeway(5*time.Second))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		info.Verified = parsed.Valid
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			// Not a JWT; the remote API is free to issue opaque tokens.
			info.Opaque = true
			return info, nil
		}
	}

	info.Subject = claims.Subject
	info.Role = claims.Role
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
