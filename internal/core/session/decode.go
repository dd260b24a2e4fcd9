package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkm/jobcards/internal/core/domain"
)

// tokenClaims is the payload the backend issues. Only the fields the client
// reads are declared.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"id"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role"`
}

// Decode reads the user identity from a token payload.
//
// The signature is NOT verified. The backend issues and verifies tokens; the
// client only reads claims to drive navigation, so this is not a security
// boundary. A token whose expiry is at or before now is rejected.
func Decode(token string, now time.Time) (*domain.User, time.Time, error) {
	if token == "" {
		return nil, time.Time{}, fmt.Errorf("%w: empty token", domain.ErrMalformedSession)
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", domain.ErrMalformedSession, err)
	}

	if claims.ExpiresAt == nil {
		return nil, time.Time{}, fmt.Errorf("%w: missing exp claim", domain.ErrMalformedSession)
	}
	exp := claims.ExpiresAt.Time
	if !exp.After(now) {
		return nil, exp, fmt.Errorf("%w: token expired at %s", domain.ErrMalformedSession, exp.UTC().Format(time.RFC3339))
	}

	if !claims.Role.Valid() {
		return nil, exp, fmt.Errorf("%w: unknown role %q", domain.ErrMalformedSession, claims.Role)
	}

	return &domain.User{ID: claims.UserID, Name: claims.Name, Role: claims.Role}, exp, nil
}
