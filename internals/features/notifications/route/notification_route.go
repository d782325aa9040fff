package route

import (
	"desaku_backend/internals/features/notifications/controller"
	"desaku_backend/internals/features/notifications/repository"

	"github.com/gofiber/fiber/v2"
)

func NotificationAdminRoutes(admin fiber.Router, store *repository.GormLogStore) {
	ctl := &controller.NotificationLogController{Store: store}
	admin.Get("/notifications", ctl.List)
}
