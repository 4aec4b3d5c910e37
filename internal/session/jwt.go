package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueCredential is returned when the access credential is not a JWT and
// its claims cannot be peeked at.
var ErrOpaqueCredential = errors.New("credential is not a parseable token")

// peekCredential extracts the subject and expiry claims from the access
// credential without verifying its signature. The credential is treated as
// opaque everywhere else; this peek is only used for display and as a
// fallback source of the user identifier during renewal.
func peekCredential(credential string) (subject string, expiresAt time.Time, err error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return "", time.Time{}, ErrOpaqueCredential
	}

	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return claims.Subject, expiresAt, nil
}
