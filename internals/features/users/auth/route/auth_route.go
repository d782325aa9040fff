package route

import (
	"desaku_backend/internals/features/users/auth/controller"
	"desaku_backend/internals/features/users/auth/service"
	"desaku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
)

// AuthRoutes: /api/auth (publik) dan /api/auth/* yang butuh login lewat `protected`.
func AuthRoutes(app *fiber.App, svc *service.AuthService, protected fiber.Handler) {
	ctrl := controller.NewAuthController(svc)

	base := app.Group("/api/auth")
	base.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	base.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)

	base.Post("/logout", protected, ctrl.Logout)
	base.Get("/me", protected, ctrl.Me)
	base.Post("/change-password", protected, ctrl.ChangePassword)
}
