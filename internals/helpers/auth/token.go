package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// BearerToken mengambil access token dari header Authorization ("Bearer <tok>",
// case-insensitive, toleran spasi/kutip) lalu fallback cookie "access_token".
func BearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		return strings.Trim(strings.TrimSpace(c.Cookies("access_token")), "\"'")
	}
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fields[1]), "\"'")
}
