// Package auth manages the locally persisted authentication session and the
// HTTP client for the session-acquisition endpoints.
//
// Token expiry is decided by local, unverified claim parsing. That check is a
// UX convenience ("is this worth bothering the server with"), never a trust
// decision: the server remains the sole authority on session validity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSessionExpired indicates the backend rejected the bearer token.
var ErrSessionExpired = errors.New("session expired, sign in again")

// User is the account information returned by the auth backend.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Session is an authenticated session as persisted locally.
type Session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh,omitempty"`
	User         User   `json:"user"`
}

// Expired reports whether the session's access token is unusable. A token
// that is structurally malformed, has no exp claim, or has an exp in the
// past counts as expired; a missing token always does.
func (s *Session) Expired() bool {
	if s == nil {
		return true
	}
	return TokenExpired(s.Token, time.Now())
}

// TokenExpired reports whether the JWT is unusable at the given instant.
// The signature is deliberately not verified; only the exp claim is read.
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(now)
}
