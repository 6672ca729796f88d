package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/estate-api/internal/api/shared"
	"github.com/phrazzld/estate-api/internal/mocks"
	"github.com/phrazzld/estate-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

type stubAuthenticator struct {
	username, password string
}

func (s stubAuthenticator) Authenticate(username, password string) error {
	if username != s.username || password != s.password {
		return auth.ErrInvalidCredentials
	}
	return nil
}

func TestIssueToken(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	authn := stubAuthenticator{username: "operator", password: "correct horse"}

	tests := []struct {
		name       string
		body       interface{}
		jwtErr     error
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid credentials",
			body:       TokenRequest{Username: "operator", Password: "correct horse"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       TokenRequest{Username: "operator", Password: "nope"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid username or password",
		},
		{
			name:       "missing password",
			body:       map[string]string{"username": "operator"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid password: required field",
		},
		{
			name:       "malformed body",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "unknown field",
			body:       `{"username":"operator","password":"x","role":"admin"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "signing failure",
			body:       TokenRequest{Username: "operator", Password: "correct horse"},
			jwtErr:     errors.New("sign failed"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to generate authentication token",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var subject string
			jwtSvc := &mocks.MockJWTService{
				GenerateTokenFn: func(ctx context.Context, s string) (string, error) {
					subject = s
					return "signed-token", tc.jwtErr
				},
			}
			h := NewAuthHandler(authn, jwtSvc, time.Hour)
			h.now = func() time.Time { return fixed }

			rec := doJSON(t, http.HandlerFunc(h.IssueToken), http.MethodPost, "/api/auth/token", tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantError != "" {
				resp := decodeBody[shared.ErrorResponse](t, rec)
				assert.Equal(t, tc.wantError, resp.Error)
				return
			}
			resp := decodeBody[TokenResponse](t, rec)
			assert.Equal(t, "signed-token", resp.AccessToken)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, "2026-05-01T11:00:00Z", resp.ExpiresAt)
			assert.Equal(t, "operator", subject)
		})
	}
}
