package admin

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	// ErrNoPassword means no admin password is configured at all; login is
	// disabled rather than open.
	ErrNoPassword = errors.New("admin password not configured")
)

// PasswordSource supplies the stored admin password. The settings store
// implements it; tests use a literal.
type PasswordSource interface {
	Get(key string) (string, error)
}

// Service checks the single shared admin credential.
type Service struct {
	source   PasswordSource
	fallback string
}

// NewService builds a service reading ADMIN_PASSWORD from source, falling
// back to the environment-supplied value when the settings file has none.
func NewService(source PasswordSource, fallback string) *Service {
	return &Service{source: source, fallback: fallback}
}

// Authenticate compares the supplied password against the stored value.
// Bcrypt-hashed stored values are verified with bcrypt; plain values are
// compared in constant time.
func (s *Service) Authenticate(password string) error {
	stored := s.fallback
	if s.source != nil {
		if v, err := s.source.Get("ADMIN_PASSWORD"); err == nil && v != "" {
			stored = v
		}
	}
	if stored == "" {
		return ErrNoPassword
	}

	if looksLikeBcrypt(stored) {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return ErrInvalidPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
