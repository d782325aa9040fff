package routes

import (
	"time"

	"desaku_backend/internals/configs"
	"desaku_backend/internals/constants"
	assetService "desaku_backend/internals/features/assets/service"
	dashService "desaku_backend/internals/features/dashboard/service"
	docService "desaku_backend/internals/features/documents/service"
	finService "desaku_backend/internals/features/finance/transactions/service"
	notifRepo "desaku_backend/internals/features/notifications/repository"
	authService "desaku_backend/internals/features/users/auth/service"
	"desaku_backend/internals/helpers/storage"
	authMiddleware "desaku_backend/internals/middlewares/auth"
	routeDetails "desaku_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var startTime time.Time

// Deps: service yang dibangun sekali di main lalu dibagi ke semua route.
type Deps struct {
	DB        *gorm.DB
	Cfg       configs.Config
	Store     storage.FileStore
	Auth      *authService.AuthService
	Ledger    *finService.LedgerService
	Loans     *assetService.LoanService
	Documents *docService.DocumentService
	Dashboard *dashService.DashboardService
	NotifLogs *notifRepo.GormLogStore
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	BaseRoutes(app, d.DB, d.Cfg)

	protected := authMiddleware.AuthMiddleware(d.DB, d.Cfg.JWTSecret)

	zap.L().Info("mount auth routes")
	routeDetails.AuthRoutes(app, d.Auth, protected)

	// PUBLIC: tanpa login
	public := app.Group("/api/public")

	// USER: semua akun yang login
	user := app.Group("/api/u", protected)

	// ADMIN: admin & perangkat desa
	admin := app.Group("/api/a",
		protected,
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("panel admin"), constants.StaffRoles...),
	)

	zap.L().Info("mount feature routes")
	routeDetails.PublicRoutes(public, routeDetails.PublicDeps{DB: d.DB, Ledger: d.Ledger})
	routeDetails.UserRoutes(user, routeDetails.UserDeps{DB: d.DB, Loans: d.Loans, Documents: d.Documents})
	routeDetails.AdminRoutes(admin, routeDetails.AdminDeps{
		DB:        d.DB,
		Store:     d.Store,
		Ledger:    d.Ledger,
		Loans:     d.Loans,
		Documents: d.Documents,
		Dashboard: d.Dashboard,
		NotifLogs: d.NotifLogs,
	})
}
