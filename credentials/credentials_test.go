package credentials

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestAccessTokenExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "expired", token: signedToken(t, now.Add(-time.Minute)), want: true},
		{name: "still valid", token: signedToken(t, now.Add(time.Hour)), want: false},
		{name: "empty", token: "", want: false},
		{name: "opaque token", token: "not-a-jwt", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creds := Credentials{AccessToken: tc.token, RefreshToken: "r"}
			require.Equal(t, tc.want, creds.AccessTokenExpired(now))
		})
	}
}

func TestAccessTokenExpiredNoExpiryClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	creds := Credentials{AccessToken: signed, RefreshToken: "r"}
	require.False(t, creds.AccessTokenExpired(time.Now()))
}

func TestValid(t *testing.T) {
	require.True(t, Credentials{AccessToken: "a", RefreshToken: "r"}.Valid())
	require.False(t, Credentials{AccessToken: "a"}.Valid())
	require.False(t, Credentials{RefreshToken: "r"}.Valid())
	require.False(t, Credentials{}.Valid())
}
