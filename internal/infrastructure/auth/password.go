package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any username or password mismatch
var ErrInvalidCredentials = errors.New("invalid username or password")

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AdminCredentials checks logins against the single configured admin
type AdminCredentials struct {
	username     string
	passwordHash []byte
}

// NewAdminCredentials creates a credential checker from a bcrypt hash
func NewAdminCredentials(username, passwordHash string) *AdminCredentials {
	return &AdminCredentials{
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Verify returns ErrInvalidCredentials unless both values match.
// The password hash is always compared so a wrong username costs the same.
func (a *AdminCredentials) Verify(username, password string) error {
	if len(a.passwordHash) == 0 {
		return ErrInvalidCredentials
	}
	hashErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	if hashErr != nil || !userOK {
		return ErrInvalidCredentials
	}
	return nil
}
