package auth

import (
	"context"
	"time"
)

// JWTService issues and validates operator access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the given operator.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken verifies the signature and time claims of tokenString
	// and returns its claims. Errors are ErrInvalidToken, ErrExpiredToken or
	// ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
