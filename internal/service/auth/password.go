package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/phrazzld/estate-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashPassword returns a bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// OperatorAuthenticator checks the single configured operator account.
type OperatorAuthenticator struct {
	username     string
	passwordHash string
	verifier     PasswordVerifier
}

// NewOperatorAuthenticator creates an authenticator for the configured operator.
func NewOperatorAuthenticator(cfg config.AuthConfig, verifier PasswordVerifier) (*OperatorAuthenticator, error) {
	if cfg.OperatorUsername == "" || cfg.OperatorPasswordHash == "" {
		return nil, errors.New("operator credentials are not configured")
	}
	if verifier == nil {
		verifier = NewBcryptVerifier()
	}
	return &OperatorAuthenticator{
		username:     cfg.OperatorUsername,
		passwordHash: cfg.OperatorPasswordHash,
		verifier:     verifier,
	}, nil
}

// Authenticate returns ErrInvalidCredentials unless both values match.
// The password is checked even for an unknown username.
func (a *OperatorAuthenticator) Authenticate(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := a.verifier.Compare(a.passwordHash, password)
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
