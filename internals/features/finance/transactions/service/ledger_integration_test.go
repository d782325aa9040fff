package service_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"desaku_backend/internals/configs"
	database "desaku_backend/internals/databases"
	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/features/finance/transactions/repository"
	"desaku_backend/internals/features/finance/transactions/service"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Uji terhadap Postgres sungguhan, opt-in: DB_DSN_TEST=1 plus DB_HOST/DB_USER/... seperti aplikasi.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	cfg := configs.Load(viper.New())
	db, err := database.ConnectDB(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newLedger(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	l := model.FinanceLedgerModel{FinanceLedgerName: "test-" + uuid.NewString()}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("create ledger: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM finance_transactions WHERE finance_transaction_ledger_id = ?", l.FinanceLedgerID)
		db.Exec("DELETE FROM finance_ledgers WHERE finance_ledger_id = ?", l.FinanceLedgerID)
	})
	return l.FinanceLedgerID
}

var bendahara = helperAuth.Actor{UserID: uuid.New(), Role: "operator"}

func jan(n int) time.Time { return time.Date(2025, time.January, n, 0, 0, 0, 0, dbtime.Location()) }

func TestLedgerPostgresEditRecomputes(t *testing.T) {
	db := openTestDB(t)
	ledgerID := newLedger(t, db)
	s := service.NewLedgerService(repository.NewGormRepository(db), configs.BalancePolicyReject, nil)
	ctx := context.Background()

	income, err := s.Append(ctx, bendahara, ledgerID, service.AppendInput{Date: jan(1), Type: model.TransactionTypeIncome, Amount: 50_000_000})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(ctx, bendahara, ledgerID, service.AppendInput{Date: jan(2), Type: model.TransactionTypeExpense, Amount: 5_000_000}); err != nil {
		t.Fatal(err)
	}
	amount := int64(40_000_000)
	if _, err := s.Edit(ctx, bendahara, income.FinanceTransactionID, service.EditPatch{Amount: &amount}); err != nil {
		t.Fatal(err)
	}

	cur, err := s.CurrentBalance(ctx, ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	if cur != 35_000_000 {
		t.Fatalf("balance = %d, want 35000000", cur)
	}
	rep, err := s.Verify(ctx, ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Drifts) != 0 {
		t.Fatalf("drift after edit: %+v", rep.Drifts)
	}
}

func TestLedgerPostgresConcurrentAppends(t *testing.T) {
	db := openTestDB(t)
	ledgerID := newLedger(t, db)
	s := service.NewLedgerService(repository.NewGormRepository(db), configs.BalancePolicyReject, nil)
	ctx := context.Background()

	const n = 12
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, bendahara, ledgerID, service.AppendInput{
				Date: jan(1 + i%5), Type: model.TransactionTypeIncome, Amount: 1_000,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	cur, _ := s.CurrentBalance(ctx, ledgerID)
	if cur != n*1_000 {
		t.Fatalf("balance = %d, want %d", cur, n*1_000)
	}
	rep, err := s.Verify(ctx, ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Drifts) != 0 || rep.Transactions != n {
		t.Fatalf("verify: %+v", rep)
	}
}

func TestLedgerPostgresSameDayRows(t *testing.T) {
	db := openTestDB(t)
	ledgerID := newLedger(t, db)
	s := service.NewLedgerService(repository.NewGormRepository(db), configs.BalancePolicyReject, nil)
	ctx := context.Background()

	for _, in := range []service.AppendInput{
		{Date: jan(1), Type: model.TransactionTypeIncome, Amount: 100},
		{Date: jan(1), Type: model.TransactionTypeExpense, Amount: 30},
		{Date: jan(1), Type: model.TransactionTypeIncome, Amount: 5},
	} {
		if _, err := s.Append(ctx, bendahara, ledgerID, in); err != nil {
			t.Fatalf("append %s %d: %v", in.Type, in.Amount, err)
		}
	}
	rep, err := s.Verify(ctx, ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Drifts) != 0 || rep.Balance != 75 {
		t.Fatalf("verify: %+v", rep)
	}
}
