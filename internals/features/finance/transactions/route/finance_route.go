package route

import (
	"desaku_backend/internals/features/finance/transactions/controller"
	"desaku_backend/internals/features/finance/transactions/service"
	"desaku_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FinanceAdminRoutes: /api/a/finance (admin & operator).
func FinanceAdminRoutes(admin fiber.Router, db *gorm.DB, svc *service.LedgerService, store storage.FileStore) {
	ctrl := controller.NewFinanceController(db, svc, store)

	g := admin.Group("/finance")
	g.Get("/ledgers", ctrl.ListLedgers)
	g.Post("/ledgers", ctrl.CreateLedger)
	g.Get("/ledgers/:ledger_id/balance", ctrl.Balance)
	g.Get("/ledgers/:ledger_id/verify", ctrl.Verify)
	g.Get("/ledgers/:ledger_id/summary", ctrl.Summary)
	g.Get("/ledgers/:ledger_id/transactions", ctrl.ListTransactions)
	g.Post("/ledgers/:ledger_id/transactions", ctrl.CreateTransaction)

	g.Patch("/transactions/:id", ctrl.UpdateTransaction)
	g.Delete("/transactions/:id", ctrl.DeleteTransaction)
}

// FinancePublicRoutes: transparansi kas desa (saldo & ringkasan) tanpa login.
func FinancePublicRoutes(public fiber.Router, db *gorm.DB, svc *service.LedgerService) {
	ctrl := controller.NewFinanceController(db, svc, nil)

	g := public.Group("/finance")
	g.Get("/ledgers", ctrl.ListLedgers)
	g.Get("/ledgers/:ledger_id/balance", ctrl.Balance)
	g.Get("/ledgers/:ledger_id/summary", ctrl.Summary)
}
