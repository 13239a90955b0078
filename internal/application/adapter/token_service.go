// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// TokenClaims represents the claims contained in an access token.
type TokenClaims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// TokenService defines the interface for access token operations.
// Tokens are issued by the external identity provider; this service only
// verifies them (and mints them for local development and tests).
type TokenService interface {
	// GenerateAccessToken issues a signed access token for the given user.
	GenerateAccessToken(ctx context.Context, userID, email string) (string, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
