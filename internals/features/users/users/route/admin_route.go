package route

import (
	"desaku_backend/internals/constants"
	userController "desaku_backend/internals/features/users/users/controller"
	authMiddleware "desaku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserAdminRoutes: manajemen akun, khusus admin.
func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := userController.NewAdminUserController(db)

	users := admin.Group("/users",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen akun"), constants.AdminOnly...),
	)
	users.Get("/", ctrl.ListUsers)
	users.Post("/", ctrl.CreateUser)
	users.Get("/:id", ctrl.GetUser)
	users.Patch("/:id", ctrl.UpdateUser)
	users.Delete("/:id", ctrl.DeleteUser)
}
