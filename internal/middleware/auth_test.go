package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseUserID(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: "test_secret"})

	t.Run("Valid token", func(t *testing.T) {
		token := signToken(t, "test_secret", jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		userID, err := ParseUserID(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token := signToken(t, "other_secret", jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := ParseUserID(token)
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		token := signToken(t, "test_secret", jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := ParseUserID(token)
		assert.Error(t, err)
	})

	t.Run("Missing subject", func(t *testing.T) {
		token := signToken(t, "test_secret", jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := ParseUserID(token)
		assert.Error(t, err)
	})

	t.Run("Non-numeric subject", func(t *testing.T) {
		token := signToken(t, "test_secret", jwt.MapClaims{
			"sub": "not-a-number",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := ParseUserID(token)
		assert.Error(t, err)
	})
}

func TestAuthRequired(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: "test_secret"})

	app := fiber.New()
	app.Get("/me", AuthRequired, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})

	t.Run("No header", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Valid bearer token", func(t *testing.T) {
		token := signToken(t, "test_secret", jwt.MapClaims{
			"sub": "7",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
