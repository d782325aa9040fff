package details

import (
	assetRoute "desaku_backend/internals/features/assets/route"
	assetService "desaku_backend/internals/features/assets/service"
	docRoute "desaku_backend/internals/features/documents/route"
	docService "desaku_backend/internals/features/documents/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserDeps struct {
	DB        *gorm.DB
	Loans     *assetService.LoanService
	Documents *docService.DocumentService
}

func UserRoutes(r fiber.Router, d UserDeps) {
	assetRoute.AssetUserRoutes(r, d.DB, d.Loans)
	docRoute.DocumentUserRoutes(r, d.DB, d.Documents)
}
