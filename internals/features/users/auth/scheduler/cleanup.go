package scheduler

import (
	"context"
	"time"

	authRepo "desaku_backend/internals/features/users/auth/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterBlacklistCleanup menjadwalkan penghapusan token_blacklist yang exp-nya
// lebih lama dari ttlDays hari.
func RegisterBlacklistCleanup(c *cron.Cron, spec string, db *gorm.DB, ttlDays int) (cron.EntryID, error) {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		before := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)
		n, err := authRepo.PurgeBlacklist(ctx, db, before)
		if err != nil {
			zap.L().Error("token blacklist cleanup", zap.Error(err))
			return
		}
		zap.L().Info("token blacklist cleanup", zap.Int64("deleted", n))
	})
}
