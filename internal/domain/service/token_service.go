package service

import (
	"time"

	"github.com/google/uuid"
)

// Claims are the verified contents of an access token issued by the upstream auth service.
type Claims struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// TokenService validates access tokens presented to the HTTP routes.
// The relay never authenticates users itself; it trusts tokens minted upstream.
type TokenService interface {
	// ValidateAccessToken parses and verifies an access token.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// GenerateAccessToken mints an access token for a user. Used by tooling and tests.
	GenerateAccessToken(userID uuid.UUID) (string, error)
}
