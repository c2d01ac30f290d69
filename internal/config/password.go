package config

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// PasswordConfig builds the hashing configuration from the auth settings.
func (a AuthConfig) PasswordConfig() (*PasswordConfig, error) {
	config := &PasswordConfig{
		BcryptCost: a.BcryptCost,
		Pepper:     a.PasswordPepper,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password using bcrypt (with optional pepper).
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash (with optional pepper).
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

// AdminConfigured reports whether admin credentials are set.
func (a AuthConfig) AdminConfigured() bool {
	return a.AdminEmail != "" && a.AdminPasswordHash != ""
}

// VerifyAdmin checks an email and password against the configured admin.
// The email comparison ignores case.
func (a AuthConfig) VerifyAdmin(pw *PasswordConfig, email, password string) bool {
	if !a.AdminConfigured() {
		return false
	}
	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(email))),
		[]byte(strings.ToLower(a.AdminEmail)),
	) == 1
	// bcrypt runs even when the email does not match.
	passwordOK := pw.VerifyPassword(password, a.AdminPasswordHash)
	return emailOK && passwordOK
}
