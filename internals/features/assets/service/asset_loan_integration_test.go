package service_test

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"desaku_backend/internals/configs"
	database "desaku_backend/internals/databases"
	"desaku_backend/internals/features/assets/model"
	"desaku_backend/internals/features/assets/repository"
	"desaku_backend/internals/features/assets/service"
	popModel "desaku_backend/internals/features/population/model"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	db, err := database.ConnectDB(configs.Load(viper.New()), zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

// fixture: satu aset idle dan satu warga; dibersihkan setelah tes.
func fixture(t *testing.T, db *gorm.DB) (model.AssetModel, popModel.CitizenModel) {
	t.Helper()
	suffix := uuid.NewString()[:8]
	asset := model.AssetModel{AssetName: "Tenda Desa " + suffix, AssetCode: "TND-" + suffix, AssetStatus: model.AssetStatusIdle}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("asset: %v", err)
	}
	id := uuid.New()
	nik := fmt.Sprintf("%016d", binary.BigEndian.Uint64(id[:8])%10_000_000_000_000_000)
	citizen := popModel.CitizenModel{CitizenNIK: nik, CitizenName: "Warga Uji", CitizenGender: popModel.GenderMale}
	if err := db.Create(&citizen).Error; err != nil {
		t.Fatalf("citizen: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM asset_loans WHERE asset_loan_asset_id = ?", asset.AssetID)
		db.Unscoped().Delete(&asset)
		db.Unscoped().Delete(&citizen)
	})
	return asset, citizen
}

var kaur = helperAuth.Actor{UserID: uuid.New(), Role: "operator"}

func TestLoanPostgresConcurrentRequestsAndApprovals(t *testing.T) {
	db := openTestDB(t)
	asset, citizen := fixture(t, db)
	s := service.NewLoanService(repository.NewGormRepository(db), nil, nil)
	ctx := context.Background()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []model.AssetLoanModel
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := s.Request(ctx, kaur, service.RequestInput{AssetID: asset.AssetID, CitizenID: citizen.CitizenID, Reason: "hajatan"})
			if err == nil {
				mu.Lock()
				winners = append(winners, l)
				mu.Unlock()
				return
			}
			if !errors.Is(err, apperror.ErrAssetUnavailable) && !errors.Is(err, apperror.ErrConcurrencyConflict) {
				t.Errorf("request: unexpected error %v", err)
			}
		}()
	}
	wg.Wait()
	if len(winners) != 1 {
		t.Fatalf("active requests = %d, want 1", len(winners))
	}

	due := time.Now().AddDate(0, 0, 3)
	approved := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Approve(ctx, kaur, winners[0].AssetLoanID, due, nil)
			if err == nil {
				mu.Lock()
				approved++
				mu.Unlock()
				return
			}
			if !errors.Is(err, apperror.ErrInvalidTransition) && !errors.Is(err, apperror.ErrConcurrencyConflict) {
				t.Errorf("approve: unexpected error %v", err)
			}
		}()
	}
	wg.Wait()
	if approved != 1 {
		t.Fatalf("approvals = %d, want 1", approved)
	}

	var got model.AssetModel
	if err := db.First(&got, "asset_id = ?", asset.AssetID).Error; err != nil {
		t.Fatal(err)
	}
	if got.AssetStatus != model.AssetStatusOnLoan {
		t.Fatalf("asset status = %s, want onloan", got.AssetStatus)
	}
	var onLoan int64
	db.Model(&model.AssetLoanModel{}).
		Where("asset_loan_asset_id = ? AND asset_loan_status = ?", asset.AssetID, model.LoanOnLoan).
		Count(&onLoan)
	if onLoan != 1 {
		t.Fatalf("on_loan rows = %d, want 1", onLoan)
	}
}
