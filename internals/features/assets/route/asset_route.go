package route

import (
	"desaku_backend/internals/features/assets/controller"
	"desaku_backend/internals/features/assets/service"
	"desaku_backend/internals/helpers/storage"
	"desaku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssetAdminRoutes: /api/a (admin & perangkat desa).
func AssetAdminRoutes(admin fiber.Router, db *gorm.DB, svc *service.LoanService, store storage.FileStore) {
	ctrl := controller.NewAssetController(db, svc, store)

	a := admin.Group("/assets")
	a.Get("/", ctrl.ListAssets)
	a.Post("/", ctrl.CreateAsset)
	a.Get("/:id", ctrl.GetAsset)
	a.Patch("/:id", ctrl.UpdateAsset)
	a.Delete("/:id", ctrl.DeleteAsset)

	l := admin.Group("/asset-loans")
	l.Get("/", ctrl.ListLoans)
	l.Post("/", ctrl.RequestLoan)
	l.Get("/:id", ctrl.GetLoan)
	l.Patch("/:id/approve", ctrl.ApproveLoan)
	l.Patch("/:id/reject", ctrl.RejectLoan)
	l.Patch("/:id/return", ctrl.ReturnLoan)
}

// AssetUserRoutes: /api/u (warga yang sudah login).
func AssetUserRoutes(user fiber.Router, db *gorm.DB, svc *service.LoanService) {
	ctrl := controller.NewAssetController(db, svc, nil)

	user.Get("/assets", ctrl.ListAssets)
	user.Get("/assets/:id", ctrl.GetAsset)
	user.Get("/asset-loans/mine", ctrl.MyLoans)
	user.Post("/asset-loans", middlewares.SubmissionRateLimiter(), ctrl.RequestLoan)
}
