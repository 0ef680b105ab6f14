package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, payload string) string {
	t.Helper()
	enc := base64.RawURLEncoding.EncodeToString
	header := enc([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return fmt.Sprintf("%s.%s.%s", header, enc([]byte(payload)), enc([]byte("sig")))
}

func tokenWithExp(t *testing.T, exp time.Time) string {
	t.Helper()
	return testToken(t, fmt.Sprintf(`{"exp":%d}`, exp.Unix()))
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	t.Run("future exp is valid", func(t *testing.T) {
		require.False(t, TokenExpired(tokenWithExp(t, now.Add(time.Hour)), now))
	})
	t.Run("past exp is expired", func(t *testing.T) {
		require.True(t, TokenExpired(tokenWithExp(t, now.Add(-time.Hour)), now))
	})
	t.Run("missing token", func(t *testing.T) {
		require.True(t, TokenExpired("", now))
	})
	t.Run("missing exp claim", func(t *testing.T) {
		require.True(t, TokenExpired(testToken(t, `{"sub":"ash"}`), now))
	})
	t.Run("two segments", func(t *testing.T) {
		parts := strings.Split(tokenWithExp(t, now.Add(time.Hour)), ".")
		require.True(t, TokenExpired(parts[0]+"."+parts[1], now))
	})
	t.Run("four segments", func(t *testing.T) {
		require.True(t, TokenExpired(tokenWithExp(t, now.Add(time.Hour))+".extra", now))
	})
	t.Run("unparseable payload", func(t *testing.T) {
		enc := base64.RawURLEncoding.EncodeToString
		tok := fmt.Sprintf("%s.%s.%s",
			enc([]byte(`{"alg":"HS256"}`)), "!!!not-base64!!!", enc([]byte("sig")))
		require.True(t, TokenExpired(tok, now))
	})
	t.Run("payload is not json", func(t *testing.T) {
		require.True(t, TokenExpired(testToken(t, `hello`), now))
	})
}

func TestSessionExpired(t *testing.T) {
	var nilSession *Session
	require.True(t, nilSession.Expired())

	s := &Session{Token: tokenWithExp(t, time.Now().Add(time.Hour))}
	require.False(t, s.Expired())

	s.Token = tokenWithExp(t, time.Now().Add(-time.Minute))
	require.True(t, s.Expired())
}
