package details

import (
	assetRoute "desaku_backend/internals/features/assets/route"
	assetService "desaku_backend/internals/features/assets/service"
	dashRoute "desaku_backend/internals/features/dashboard/route"
	dashService "desaku_backend/internals/features/dashboard/service"
	docRoute "desaku_backend/internals/features/documents/route"
	docService "desaku_backend/internals/features/documents/service"
	eventRoute "desaku_backend/internals/features/events/route"
	finRoute "desaku_backend/internals/features/finance/transactions/route"
	finService "desaku_backend/internals/features/finance/transactions/service"
	notifRepo "desaku_backend/internals/features/notifications/repository"
	notifRoute "desaku_backend/internals/features/notifications/route"
	popRoute "desaku_backend/internals/features/population/route"
	aidRoute "desaku_backend/internals/features/social_aids/route"
	userRoute "desaku_backend/internals/features/users/users/route"
	"desaku_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminDeps struct {
	DB        *gorm.DB
	Store     storage.FileStore
	Ledger    *finService.LedgerService
	Loans     *assetService.LoanService
	Documents *docService.DocumentService
	Dashboard *dashService.DashboardService
	NotifLogs *notifRepo.GormLogStore
}

// AdminRoutes: semua fitur kelola desa di bawah /api/a.
func AdminRoutes(r fiber.Router, d AdminDeps) {
	dashRoute.DashboardAdminRoutes(r, d.Dashboard)
	popRoute.PopulationAdminRoutes(r, d.DB)
	finRoute.FinanceAdminRoutes(r, d.DB, d.Ledger, d.Store)
	assetRoute.AssetAdminRoutes(r, d.DB, d.Loans, d.Store)
	docRoute.DocumentAdminRoutes(r, d.DB, d.Documents, d.Store)
	aidRoute.SocialAidAdminRoutes(r, d.DB)
	eventRoute.EventAdminRoutes(r, d.DB, d.Store)
	notifRoute.NotificationAdminRoutes(r, d.NotifLogs)
	userRoute.UserAdminRoutes(r, d.DB)
}
