package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/estate-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime))

	token, err := svc.GenerateToken(context.Background(), "operator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	_, err = svc.GenerateToken(context.Background(), "  ")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime))
	valid, err := issuer.GenerateToken(context.Background(), "operator")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:  tokenIssuer,
		Subject: "operator",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name      string
		validator *hmacJWTService
		token     string
		wantErr   error
	}{
		{
			name:      "valid token",
			validator: issuer,
			token:     valid,
		},
		{
			name:      "expired token",
			validator: newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime.Add(2*time.Hour))),
			token:     valid,
			wantErr:   ErrExpiredToken,
		},
		{
			name:      "within clock skew",
			validator: newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime.Add(time.Hour+time.Minute))),
			token:     valid,
		},
		{
			name:      "not yet valid",
			validator: newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime.Add(-10*time.Minute))),
			token:     valid,
			wantErr:   ErrTokenNotYetValid,
		},
		{
			name:      "wrong secret",
			validator: newHMACJWTService(wrongSecret, time.Hour, fixedClock(fixedTime)),
			token:     valid,
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "malformed token",
			validator: issuer,
			token:     "not.a.token",
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "tampered payload",
			validator: issuer,
			token:     tamper(valid),
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "none algorithm",
			validator: issuer,
			token:     noneToken,
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "empty token",
			validator: issuer,
			token:     "",
			wantErr:   ErrMissingToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tc.validator.ValidateToken(context.Background(), tc.token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "operator", claims.Subject)
		})
	}
}

// tamper swaps the payload segment so the signature no longer matches.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return token
	}
	other, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  tokenIssuer,
		Subject: "intruder",
	}).SignedString([]byte(wrongSecret))
	parts[1] = strings.Split(other, ".")[1]
	return strings.Join(parts, ".")
}
