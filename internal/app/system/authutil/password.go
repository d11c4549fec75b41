// Package authutil covers password handling for the admin accounts:
// validation on registration, bcrypt hashing, and verification at login.
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// bcrypt only reads the first 72 bytes; longer input would silently
	// truncate, so it is rejected instead.
	MaxPasswordLength = 72
	BcryptCost        = 12
)

var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters.")
	ErrPasswordTooLong  = errors.New("Password must be at most 72 characters.")
	ErrPasswordCommon   = errors.New("This password is too common. Please choose a different one.")
)

// commonPasswords blocks the passwords most likely to be tried against an
// exposed admin login, including obvious picks for a CMS.
var commonPasswords = map[string]bool{
	"12345678":    true,
	"123456789":   true,
	"1234567890":  true,
	"password":    true,
	"password1":   true,
	"password123": true,
	"qwerty123":   true,
	"qwertyuiop":  true,
	"letmein1":    true,
	"welcome1":    true,
	"iloveyou":    true,
	"sunshine":    true,
	"princess":    true,
	"football":    true,
	"baseball":    true,
	"superman":    true,
	"admin123":    true,
	"adminadmin":  true,
	"changeme":    true,
	"leenagroup":  true,
}

// PasswordRules describes the policy for display on the registration form.
func PasswordRules() string {
	return "Password must be 8 to 72 characters and cannot be a common password like \"password123\"."
}

// ValidatePassword checks a candidate password against the policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword bcrypt-hashes a password. Validate with ValidatePassword
// first; this does not re-check the policy.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether a plain-text password matches a stored
// bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
