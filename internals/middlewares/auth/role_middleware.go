package auth

import (
	"strings"

	helper "desaku_backend/internals/helpers"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

// OnlyRoles meloloskan request bila userRole termasuk roles; selain itu 403 dengan pesan kustom.
func OnlyRoles(forbiddenMessage string, roles ...string) fiber.Handler {
	if forbiddenMessage == "" {
		forbiddenMessage = "Forbidden: Anda tidak memiliki akses ke fitur ini"
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helperAuth.LocUserRole).(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: informasi role tidak ada")
		}
		for _, allowed := range roles {
			if strings.EqualFold(role, allowed) {
				return c.Next()
			}
		}
		return helper.JsonError(c, fiber.StatusForbidden, forbiddenMessage)
	}
}
