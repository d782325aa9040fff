package route

import (
	"desaku_backend/internals/features/dashboard/controller"
	"desaku_backend/internals/features/dashboard/service"

	"github.com/gofiber/fiber/v2"
)

func DashboardAdminRoutes(admin fiber.Router, svc *service.DashboardService) {
	ctrl := &controller.DashboardController{Svc: svc}
	admin.Get("/dashboard", ctrl.Get)
}
