package route

import (
	"desaku_backend/internals/features/documents/controller"
	"desaku_backend/internals/features/documents/service"
	"desaku_backend/internals/helpers/storage"
	"desaku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DocumentAdminRoutes: /api/a (admin & perangkat desa).
func DocumentAdminRoutes(admin fiber.Router, db *gorm.DB, svc *service.DocumentService, store storage.FileStore) {
	ctrl := controller.NewDocumentController(db, svc, store)

	m := admin.Group("/master-documents")
	m.Get("/", ctrl.ListMasters)
	m.Post("/", ctrl.CreateMaster)
	m.Patch("/:id", ctrl.UpdateMaster)
	m.Delete("/:id", ctrl.DeleteMaster)

	a := admin.Group("/document-applications")
	a.Get("/", ctrl.ListApplications)
	a.Post("/", ctrl.Submit)
	a.Get("/:id", ctrl.GetApplication)
	a.Patch("/:id/process", ctrl.Process)
	a.Patch("/:id/complete", ctrl.Complete)
	a.Patch("/:id/reject", ctrl.Reject)
}

// DocumentUserRoutes: /api/u (warga login).
func DocumentUserRoutes(user fiber.Router, db *gorm.DB, svc *service.DocumentService) {
	ctrl := controller.NewDocumentController(db, svc, nil)

	user.Get("/document-applications/mine", ctrl.MyApplications)
	user.Post("/document-applications", middlewares.SubmissionRateLimiter(), ctrl.Submit)
}

// DocumentPublicRoutes: katalog surat & pelacakan status tanpa login.
func DocumentPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDocumentController(db, nil, nil)

	public.Get("/master-documents", ctrl.ListActiveMasters)
	public.Get("/master-documents/:key", ctrl.GetMaster)
	public.Get("/document-applications/track", ctrl.Track)
}
