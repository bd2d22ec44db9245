package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerHeader renders the Authorization header value for token, or "" when token is blank.
func BearerHeader(token string) string {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ""
	}
	return bearerPrefix + trimmed
}

// SetBearer attaches the bearer token to req. A blank token leaves the request unauthenticated.
func SetBearer(req *http.Request, token string) bool {
	if req == nil {
		return false
	}
	header := BearerHeader(token)
	if header == "" {
		req.Header.Del("Authorization")
		return false
	}
	req.Header.Set("Authorization", header)
	return true
}
