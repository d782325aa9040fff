package finance

import (
	"context"
	"errors"

	finRepo "desaku_backend/internals/features/finance/transactions/repository"
	"desaku_backend/internals/helpers/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDefaultLedger membuat buku kas utama (mis. "Kas Desa") bila belum ada.
func SeedDefaultLedger(ctx context.Context, db *gorm.DB, name string) error {
	_, err := finRepo.FindLedgerByName(ctx, db, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	if _, err := finRepo.CreateLedger(ctx, db, name); err != nil {
		return err
	}
	zap.L().Info("seed ledger", zap.String("name", name))
	return nil
}
