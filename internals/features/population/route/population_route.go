package route

import (
	"desaku_backend/internals/features/population/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PopulationAdminRoutes: /api/a/citizens & /api/a/families
func PopulationAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPopulationController(db)

	citizens := admin.Group("/citizens")
	citizens.Get("/", ctrl.ListCitizens)
	citizens.Get("/:id", ctrl.GetCitizen)
	citizens.Post("/", ctrl.CreateCitizen)
	citizens.Patch("/:id", ctrl.UpdateCitizen)
	citizens.Delete("/:id", ctrl.DeleteCitizen)

	families := admin.Group("/families")
	families.Get("/", ctrl.ListFamilies)
	families.Get("/:id", ctrl.GetFamily)
	families.Post("/", ctrl.CreateFamily)
	families.Patch("/:id", ctrl.UpdateFamily)
	families.Delete("/:id", ctrl.DeleteFamily)
}
