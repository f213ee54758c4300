package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/presalesly/presalesly/internal/model"
)

// Record is the persisted session.
type Record struct {
	AccessToken       string            `json:"access_token"`
	TokenType         string            `json:"token_type,omitempty"`
	User              *model.UserDetail `json:"user,omitempty"`
	Username          string            `json:"username,omitempty"`
	LoginLanguageCode string            `json:"login_language_code,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// claims decodes the token payload without verifying the signature; the
// client only reads it for display.
func (r Record) claims() (*jwt.RegisteredClaims, error) {
	var c jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(r.AccessToken, &c); err != nil {
		return nil, fmt.Errorf("decoding access token: %w", err)
	}
	return &c, nil
}

// ExpiresAt returns the token's exp claim. ok is false when the token has
// no expiry or is not a JWT.
func (r Record) ExpiresAt() (t time.Time, ok bool) {
	c, err := r.claims()
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// Expired reports whether the token's expiry is before now.
func (r Record) Expired(now time.Time) bool {
	exp, ok := r.ExpiresAt()
	return ok && !now.Before(exp)
}

// Subject returns the token's sub claim, the user's email on this backend,
// falling back to the username given at login.
func (r Record) Subject() string {
	if c, err := r.claims(); err == nil && c.Subject != "" {
		return c.Subject
	}
	return r.Username
}
