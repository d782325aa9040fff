package details

import (
	authRoute "desaku_backend/internals/features/users/auth/route"
	authService "desaku_backend/internals/features/users/auth/service"

	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, svc *authService.AuthService, protected fiber.Handler) {
	authRoute.AuthRoutes(app, svc, protected)
}
