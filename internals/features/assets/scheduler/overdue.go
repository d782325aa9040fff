package scheduler

import (
	"context"
	"time"

	"desaku_backend/internals/features/assets/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RegisterOverdueReminder menjadwalkan pengingat peminjaman yang lewat tanggal kembali.
func RegisterOverdueReminder(c *cron.Cron, spec string, svc *service.LoanService) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		n, err := svc.RemindOverdue(ctx)
		if err != nil {
			zap.L().Error("overdue reminder", zap.Error(err))
			return
		}
		zap.L().Info("overdue reminder", zap.Int("reminded", n))
	})
}
