// Package authutil holds the password rules and bcrypt helpers used by
// registration, login, and the superadmin bootstrap.
package authutil

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores bytes past 72; 128 bounds hashing work on hostile input.
	MaxPasswordLength = 128

	DefaultBcryptCost = 12
)

var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
)

// ValidatePassword checks pw against the length rules.
func ValidatePassword(pw string) error {
	switch n := len([]rune(pw)); {
	case n < MinPasswordLength:
		return ErrPasswordTooShort
	case n > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// PasswordRules describes the rules for display in error messages.
func PasswordRules() string {
	return fmt.Sprintf("Password must be between %d and %d characters.", MinPasswordLength, MaxPasswordLength)
}

// HashPassword hashes pw with DefaultBcryptCost.
func HashPassword(pw string) (string, error) {
	return HashPasswordCost(pw, DefaultBcryptCost)
}

// HashPasswordCost hashes pw with the given bcrypt cost. A cost outside
// bcrypt's range falls back to DefaultBcryptCost.
func HashPasswordCost(pw string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. A malformed hash never matches.
func CheckPassword(pw, hash string) bool {
	if pw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
