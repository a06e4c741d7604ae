// Package auth gates the admin API. A password check issues a short-lived
// signed token; nothing the browser stores is trusted without verifying it.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xn-coder/Project-Gateway/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginDisabled      = errors.New("admin login is not configured")
)

// Authenticator checks the admin password and issues session tokens.
type Authenticator struct {
	password string
	hash     []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// New builds an Authenticator from the admin settings in cfg. A bcrypt hash
// takes precedence over a plaintext password.
func New(cfg *config.Config) *Authenticator {
	a := &Authenticator{
		password: cfg.AdminPassword,
		secret:   cfg.SessionSecret,
		ttl:      cfg.SessionTTL,
		now:      time.Now,
	}
	if cfg.AdminPasswordHash != "" {
		a.hash = []byte(cfg.AdminPasswordHash)
		a.password = ""
	}
	return a
}

// Enabled reports whether any credential is configured.
func (a *Authenticator) Enabled() bool {
	return a.password != "" || a.hash != nil
}

// Login checks password and returns a signed token with its expiry.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, ErrLoginDisabled
	}
	if !a.check(password) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	token, expires, err := generateToken(a.secret, a.now(), a.ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Validate verifies a session token.
func (a *Authenticator) Validate(token string) (*Claims, error) {
	return validateToken(a.secret, token, a.now())
}

func (a *Authenticator) check(password string) bool {
	if a.hash != nil {
		return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(a.password), []byte(password)) == 1
}

// HashPassword returns a bcrypt hash suitable for GATEWAY_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
