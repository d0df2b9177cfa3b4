package auth

import (
	"errors"
	"strings"
)

// ErrMalformedHeader is returned for authorization headers that are not "Bearer <token>".
var ErrMalformedHeader = errors.New("malformed authorization header")

// BearerToken extracts the token from a "Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	raw := strings.TrimSpace(header)
	scheme, token, found := strings.Cut(raw, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMalformedHeader
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedHeader
	}
	return token, nil
}
