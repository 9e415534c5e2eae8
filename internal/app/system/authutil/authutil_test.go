package authutil

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Test password validation

func TestValidatePassword_Valid(t *testing.T) {
	validPasswords := []string{
		"secure123",
		"MyP@ssw0rd",
		"abcdef", // exactly the minimum
		"ñandú!",
	}

	for _, pw := range validPasswords {
		if err := ValidatePassword(pw); err != nil {
			t.Errorf("expected %q to be valid, got error: %v", pw, err)
		}
	}
}

func TestValidatePassword_TooShort(t *testing.T) {
	for _, pw := range []string{"", "a", "abcde", "ñandú"} {
		if err := ValidatePassword(pw); err != ErrPasswordTooShort {
			t.Errorf("expected ErrPasswordTooShort for %q, got %v", pw, err)
		}
	}
}

func TestValidatePassword_Length(t *testing.T) {
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordLength)); err != nil {
		t.Errorf("expected password at max length to be valid, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordLength+1)); err != ErrPasswordTooLong {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}

// Test password hashing

func TestHashPassword_Valid(t *testing.T) {
	password := "SecurePassword123"

	hash, err := HashPasswordCost(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasswordCost failed: %v", err)
	}
	if hash == "" || hash == password {
		t.Fatalf("unexpected hash %q", hash)
	}
	if hash[0] != '$' {
		t.Error("expected bcrypt hash to start with $")
	}
	if cost, _ := bcrypt.Cost([]byte(hash)); cost != bcrypt.MinCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.MinCost)
	}
}

func TestHashPassword_OutOfRangeCostUsesDefault(t *testing.T) {
	hash, err := HashPasswordCost("SecurePassword123", 99)
	if err != nil {
		t.Fatalf("HashPasswordCost failed: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(hash)); cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", cost, DefaultBcryptCost)
	}
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	hash1, _ := HashPasswordCost("SecurePassword123", bcrypt.MinCost)
	hash2, _ := HashPasswordCost("SecurePassword123", bcrypt.MinCost)

	// bcrypt uses random salt
	if hash1 == hash2 {
		t.Error("expected different hashes for same password")
	}
}

// Test password checking

func TestCheckPassword(t *testing.T) {
	hash, err := HashPasswordCost("SecurePassword123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasswordCost failed: %v", err)
	}

	tests := []struct {
		name string
		pw   string
		hash string
		want bool
	}{
		{"correct", "SecurePassword123", hash, true},
		{"incorrect", "WrongPassword456", hash, false},
		{"empty password", "", hash, false},
		{"invalid hash", "password", "not-a-valid-hash", false},
		{"empty hash", "password", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.pw, tt.hash); got != tt.want {
				t.Errorf("CheckPassword = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordRules(t *testing.T) {
	if rules := PasswordRules(); !strings.Contains(rules, "6") {
		t.Errorf("expected PasswordRules to mention minimum length of 6, got %q", rules)
	}
}
