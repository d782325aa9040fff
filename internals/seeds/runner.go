package seeds

import (
	"context"
	"time"

	"desaku_backend/internals/configs"
	documents "desaku_backend/internals/seeds/documents"
	finance "desaku_backend/internals/seeds/finance"
	users "desaku_backend/internals/seeds/users/auth"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunAllSeeds idempoten; aman dipanggil setiap start.
func RunAllSeeds(db *gorm.DB, cfg configs.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"admin", func() error { return users.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword) }},
		{"users", func() error { return users.SeedUsersFromJSON(ctx, db, "internals/seeds/users/auth/data_users.json") }},
		{"ledger", func() error { return finance.SeedDefaultLedger(ctx, db, cfg.DefaultLedger) }},
		{"master documents", func() error {
			return documents.SeedMasterDocumentsFromJSON(ctx, db, "internals/seeds/documents/data_master_documents.json")
		}},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			zap.L().Error("seed gagal", zap.String("step", s.name), zap.Error(err))
		}
	}
}
