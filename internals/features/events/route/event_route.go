package route

import (
	"desaku_backend/internals/features/events/controller"
	"desaku_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func EventAdminRoutes(admin fiber.Router, db *gorm.DB, store storage.FileStore) {
	ctrl := controller.NewEventController(db, store)

	g := admin.Group("/events")
	g.Get("/", ctrl.ListEvents)
	g.Post("/", ctrl.CreateEvent)
	g.Get("/:key", ctrl.GetEvent)
	g.Patch("/:id", ctrl.UpdateEvent)
	g.Delete("/:id", ctrl.DeleteEvent)
}

func EventPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventController(db, nil)

	public.Get("/events", ctrl.ListEvents)
	public.Get("/events/:key", ctrl.GetEvent)
}
