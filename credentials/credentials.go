// Package credentials holds the credential bundle produced by login and
// refresh flows and the Vault that persists it.
package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the bundle produced by login and refresh: a short-lived
// bearer access token, the refresh token used to rotate it, and the
// server-issued session id the session-scoped refresh and logout protocol
// requires.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	SessionID    string `json:"sessionId"`
}

// Valid reports whether the bundle carries a usable token pair.
func (c Credentials) Valid() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// AccessTokenExpired reports whether the access token is a parseable JWT
// whose expiry has passed. The signature is not verified; that is the
// server's job. Unparseable tokens report false so the server stays the
// authority on rejection.
func (c Credentials) AccessTokenExpired(now time.Time) bool {
	if c.AccessToken == "" {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}
