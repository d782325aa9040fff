package details

import (
	docRoute "desaku_backend/internals/features/documents/route"
	eventRoute "desaku_backend/internals/features/events/route"
	finRoute "desaku_backend/internals/features/finance/transactions/route"
	finService "desaku_backend/internals/features/finance/transactions/service"
	aidRoute "desaku_backend/internals/features/social_aids/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PublicDeps struct {
	DB     *gorm.DB
	Ledger *finService.LedgerService
}

// PublicRoutes: transparansi kas, katalog surat, bansos dan agenda desa.
func PublicRoutes(r fiber.Router, d PublicDeps) {
	finRoute.FinancePublicRoutes(r, d.DB, d.Ledger)
	docRoute.DocumentPublicRoutes(r, d.DB)
	aidRoute.SocialAidPublicRoutes(r, d.DB)
	eventRoute.EventPublicRoutes(r, d.DB)
}
