package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocRawToken holds the verified access token for handlers that forward it.
const LocRawToken = "raw_token"

// GetRawAccessToken returns, in order: Locals("raw_token"), the Bearer header,
// the access_token cookie.
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	if auth := c.Get("Authorization"); len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
