package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	t.Run("Cookie Preferred", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie_token"})
		req.Header.Set("Authorization", "Bearer header_token")

		assert.Equal(t, "cookie_token", ExtractAccessToken(req))
	})

	t.Run("Empty Cookie Falls Back to Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: ""})
		req.Header.Set("Authorization", "Bearer header_token")

		assert.Equal(t, "header_token", ExtractAccessToken(req))
	})

	t.Run("No Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")

		assert.Equal(t, "", ExtractAccessToken(req))
	})
}

func TestVerifier(t *testing.T) {
	v := NewVerifier("test-secret")

	t.Run("Round trip", func(t *testing.T) {
		tok, err := v.Sign(12, "buyer@example.com", "customer", time.Hour)
		require.NoError(t, err)

		claims, err := v.Parse(tok)
		require.NoError(t, err)
		assert.Equal(t, uint(12), claims.UserID)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("Expired", func(t *testing.T) {
		tok, err := v.Sign(12, "buyer@example.com", "customer", -time.Minute)
		require.NoError(t, err)

		_, err = v.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		tok, err := NewVerifier("other").Sign(12, "", "customer", time.Hour)
		require.NoError(t, err)

		_, err = v.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Unsigned algorithm rejected", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing secret", func(t *testing.T) {
		_, err := NewVerifier("").Parse("x")
		assert.ErrorIs(t, err, ErrMissingSecret)

		_, err = NewVerifier("").Sign(1, "", "", time.Hour)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}
