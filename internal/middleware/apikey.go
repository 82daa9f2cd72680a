package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const apiKeyHeader = "X-API-Key"

// APIKey authorizes requests by comparing the X-API-Key header against the
// configured key set in constant time. With no keys configured the faucet is
// open and the middleware is a no-op.
func APIKey(keys []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(keys) == 0 {
			return c.Next()
		}

		provided := c.Get(apiKeyHeader)
		if provided == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing API key")
		}
		for _, key := range keys {
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1 {
				return c.Next()
			}
		}

		return fiber.NewError(http.StatusUnauthorized, "invalid API key")
	}
}
