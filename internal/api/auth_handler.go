package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/estate-api/internal/api/shared"
	"github.com/phrazzld/estate-api/internal/service/auth"
)

// Authenticator checks operator credentials.
type Authenticator interface {
	Authenticate(username, password string) error
}

// AuthHandler issues operator access tokens.
type AuthHandler struct {
	authenticator Authenticator
	jwtService    auth.JWTService
	tokenLifetime time.Duration
	now           func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authenticator Authenticator, jwtService auth.JWTService, tokenLifetime time.Duration) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtService:    jwtService,
		tokenLifetime: tokenLifetime,
		now:           time.Now,
	}
}

// IssueToken handles POST /api/auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if err := h.authenticator.Authenticate(req.Username, req.Password); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	issuedAt := h.now()
	token, err := h.jwtService.GenerateToken(r.Context(), req.Username)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   issuedAt.Add(h.tokenLifetime).UTC().Format(time.RFC3339),
	})
}
