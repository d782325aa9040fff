package route

import (
	"desaku_backend/internals/features/social_aids/controller"
	"desaku_backend/internals/features/social_aids/repository"
	"desaku_backend/internals/features/social_aids/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SocialAidAdminRoutes: /api/a/social-aids.
func SocialAidAdminRoutes(admin fiber.Router, db *gorm.DB) {
	svc := service.NewRecipientService(repository.NewGormRepository(db))
	ctrl := controller.NewSocialAidController(db, svc)

	g := admin.Group("/social-aids")
	g.Get("/programs", ctrl.ListPrograms)
	g.Post("/programs", ctrl.CreateProgram)
	g.Get("/programs/:id", ctrl.GetProgram)
	g.Patch("/programs/:id", ctrl.UpdateProgram)
	g.Delete("/programs/:id", ctrl.DeleteProgram)
	g.Get("/programs/:id/recipients", ctrl.ListRecipients)
	g.Post("/programs/:id/recipients", ctrl.AddRecipient)

	g.Patch("/recipients/:id/collected", ctrl.MarkCollected)
	g.Patch("/recipients/:id/not-collected", ctrl.MarkNotCollected)
	g.Delete("/recipients/:id", ctrl.DeleteRecipient)
}

// SocialAidPublicRoutes: transparansi program bantuan (tanpa data penerima).
func SocialAidPublicRoutes(public fiber.Router, db *gorm.DB) {
	svc := service.NewRecipientService(repository.NewGormRepository(db))
	ctrl := controller.NewSocialAidController(db, svc)

	public.Get("/social-aids/programs", ctrl.ListPrograms)
	public.Get("/social-aids/programs/:id", ctrl.GetProgram)
}
