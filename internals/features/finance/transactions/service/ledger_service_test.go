package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"desaku_backend/internals/configs"
	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/features/finance/transactions/repository"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* =========================================================
   Fake repository: state in memory, rollback on error
========================================================= */

type fakeRepo struct {
	ledgers map[uuid.UUID]model.FinanceLedgerModel
	txs     map[int64]model.FinanceTransactionModel
	nextID  int64
}

func newFakeRepo(ledgerIDs ...uuid.UUID) *fakeRepo {
	r := &fakeRepo{
		ledgers: map[uuid.UUID]model.FinanceLedgerModel{},
		txs:     map[int64]model.FinanceTransactionModel{},
		nextID:  1,
	}
	for _, id := range ledgerIDs {
		r.ledgers[id] = model.FinanceLedgerModel{FinanceLedgerID: id, FinanceLedgerName: id.String()}
	}
	return r
}

func (r *fakeRepo) InTx(_ context.Context, fn func(tx repository.Tx) error) error {
	ledgers := make(map[uuid.UUID]model.FinanceLedgerModel, len(r.ledgers))
	for k, v := range r.ledgers {
		ledgers[k] = v
	}
	txs := make(map[int64]model.FinanceTransactionModel, len(r.txs))
	for k, v := range r.txs {
		txs[k] = v
	}
	next := r.nextID

	if err := fn(fakeTx{r}); err != nil {
		r.ledgers, r.txs, r.nextID = ledgers, txs, next
		return err
	}
	return nil
}

func (r *fakeRepo) FindTransaction(_ context.Context, id int64) (model.FinanceTransactionModel, error) {
	return fakeTx{r}.FindTransaction(id)
}

func (r *fakeRepo) ListOrdered(_ context.Context, ledgerID uuid.UUID) ([]model.FinanceTransactionModel, error) {
	return fakeTx{r}.ListOrdered(ledgerID)
}

func (r *fakeRepo) LastBalance(_ context.Context, ledgerID uuid.UUID) (int64, error) {
	rows, _ := fakeTx{r}.ListOrdered(ledgerID)
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[len(rows)-1].FinanceTransactionBalance, nil
}

type fakeTx struct{ r *fakeRepo }

func (t fakeTx) LockLedger(id uuid.UUID) (model.FinanceLedgerModel, error) {
	l, ok := t.r.ledgers[id]
	if !ok {
		return l, apperror.NotFound("Buku kas")
	}
	return l, nil
}

func (t fakeTx) ListOrdered(ledgerID uuid.UUID) ([]model.FinanceTransactionModel, error) {
	var out []model.FinanceTransactionModel
	for _, m := range t.r.txs {
		if m.FinanceTransactionLedgerID == ledgerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.FinanceTransactionDate.Equal(b.FinanceTransactionDate) {
			return a.FinanceTransactionDate.Before(b.FinanceTransactionDate)
		}
		return a.FinanceTransactionID < b.FinanceTransactionID
	})
	return out, nil
}

func (t fakeTx) FindTransaction(id int64) (model.FinanceTransactionModel, error) {
	m, ok := t.r.txs[id]
	if !ok {
		return m, apperror.NotFound("Transaksi")
	}
	return m, nil
}

// asDateColumn meniru kolom date lewat pgx: tanggal ditulis apa adanya (Y-M-D di zona
// nilainya) dan dibaca kembali sebagai 00:00 UTC.
func asDateColumn(m model.FinanceTransactionModel) model.FinanceTransactionModel {
	d := m.FinanceTransactionDate
	m.FinanceTransactionDate = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return m
}

func (t fakeTx) Insert(m *model.FinanceTransactionModel) error {
	m.FinanceTransactionID = t.r.nextID
	t.r.nextID++
	t.r.txs[m.FinanceTransactionID] = asDateColumn(*m)
	return nil
}

func (t fakeTx) Save(m *model.FinanceTransactionModel) error {
	if _, ok := t.r.txs[m.FinanceTransactionID]; !ok {
		return apperror.NotFound("Transaksi")
	}
	t.r.txs[m.FinanceTransactionID] = asDateColumn(*m)
	return nil
}

func (t fakeTx) SetBalances(b map[int64]int64) error {
	for id, bal := range b {
		m := t.r.txs[id]
		m.FinanceTransactionBalance = bal
		t.r.txs[id] = m
	}
	return nil
}

func (t fakeTx) Delete(id int64) error {
	if _, ok := t.r.txs[id]; !ok {
		return apperror.NotFound("Transaksi")
	}
	delete(t.r.txs, id)
	return nil
}

func (t fakeTx) BumpVersion(ledgerID uuid.UUID, from int64, balance int64) error {
	l := t.r.ledgers[ledgerID]
	if l.FinanceLedgerVersion != from {
		return apperror.Conflict("version moved")
	}
	l.FinanceLedgerVersion = from + 1
	l.FinanceLedgerBalance = balance
	t.r.ledgers[ledgerID] = l
	return nil
}

/* =========================================================
   Helpers
========================================================= */

var (
	ledgerID  = uuid.MustParse("8b0c6c50-3d7e-4c1d-9a55-2a4f1e0f0001")
	treasurer = helperAuth.Actor{UserID: uuid.MustParse("8b0c6c50-3d7e-4c1d-9a55-2a4f1e0f00aa"), Role: "treasurer"}
)

func day(n int) time.Time {
	return time.Date(2025, time.January, n, 0, 0, 0, 0, dbtime.Location())
}

func ptr[T any](v T) *T { return &v }

func newSvc(policy string) (*LedgerService, *fakeRepo) {
	repo := newFakeRepo(ledgerID)
	return NewLedgerService(repo, policy, nil), repo
}

func mustAppend(t *testing.T, s *LedgerService, d time.Time, typ string, amount int64) model.FinanceTransactionModel {
	t.Helper()
	m, err := s.Append(context.Background(), treasurer, ledgerID, AppendInput{Date: d, Type: typ, Amount: amount})
	if err != nil {
		t.Fatalf("append %s %d on %s: %v", typ, amount, d.Format(dbtime.DateLayout), err)
	}
	return m
}

// assertConsistent: tidak ada drift, saldo terakhir = jumlah bertanda, tidak ada saldo negatif.
func assertConsistent(t *testing.T, s *LedgerService, repo *fakeRepo) {
	t.Helper()
	ctx := context.Background()
	rep, err := s.Verify(ctx, ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Drifts) != 0 {
		t.Fatalf("drift: %+v", rep.Drifts)
	}
	var sum int64
	for _, m := range repo.txs {
		sum += Signed(rowFromModel(m))
		if m.FinanceTransactionBalance < 0 {
			t.Fatalf("negative balance on %d", m.FinanceTransactionID)
		}
	}
	cur, _ := s.CurrentBalance(ctx, ledgerID)
	if cur != sum {
		t.Fatalf("current balance %d != signed sum %d", cur, sum)
	}
	if repo.ledgers[ledgerID].FinanceLedgerBalance != cur {
		t.Fatalf("ledger cache %d != current %d", repo.ledgers[ledgerID].FinanceLedgerBalance, cur)
	}
}

/* =========================================================
   Tests
========================================================= */

func TestLedgerIncomeExpenseThenEdit(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()

	income := mustAppend(t, s, day(1), model.TransactionTypeIncome, 50_000_000)
	if income.FinanceTransactionBalance != 50_000_000 {
		t.Fatalf("income balance = %d", income.FinanceTransactionBalance)
	}
	expense := mustAppend(t, s, day(2), model.TransactionTypeExpense, 5_000_000)
	if expense.FinanceTransactionBalance != 45_000_000 {
		t.Fatalf("expense balance = %d", expense.FinanceTransactionBalance)
	}

	if _, err := s.Edit(ctx, treasurer, income.FinanceTransactionID, EditPatch{Amount: ptr[int64](40_000_000)}); err != nil {
		t.Fatal(err)
	}
	cur, _ := s.CurrentBalance(ctx, ledgerID)
	if cur != 35_000_000 {
		t.Fatalf("current balance = %d, want 35000000", cur)
	}
	if got := repo.txs[expense.FinanceTransactionID].FinanceTransactionBalance; got != 35_000_000 {
		t.Fatalf("expense row balance = %d", got)
	}
	if repo.txs[income.FinanceTransactionID].FinanceTransactionEditedBy == nil {
		t.Fatal("edited_by not set")
	}
	assertConsistent(t, s, repo)
}

func TestLedgerBackdatedAppend(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)

	mustAppend(t, s, day(1), model.TransactionTypeIncome, 100)
	later := mustAppend(t, s, day(5), model.TransactionTypeExpense, 30)
	mid := mustAppend(t, s, day(3), model.TransactionTypeIncome, 20)

	if mid.FinanceTransactionBalance != 120 {
		t.Fatalf("backdated row balance = %d", mid.FinanceTransactionBalance)
	}
	if got := repo.txs[later.FinanceTransactionID].FinanceTransactionBalance; got != 90 {
		t.Fatalf("later row balance = %d, want 90", got)
	}
	assertConsistent(t, s, repo)
}

func TestLedgerSameDayOrderById(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)

	a := mustAppend(t, s, day(1), model.TransactionTypeIncome, 10)
	b := mustAppend(t, s, day(1), model.TransactionTypeIncome, 5)
	if a.FinanceTransactionBalance != 10 || b.FinanceTransactionBalance != 15 {
		t.Fatalf("balances %d %d", a.FinanceTransactionBalance, b.FinanceTransactionBalance)
	}
	assertConsistent(t, s, repo)
}

func TestLedgerSameDayExpenseAfterIncome(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()

	income := mustAppend(t, s, day(1), model.TransactionTypeIncome, 100)
	expense := mustAppend(t, s, day(1), model.TransactionTypeExpense, 30)
	if expense.FinanceTransactionBalance != 70 {
		t.Fatalf("same-day expense balance = %d, want 70", expense.FinanceTransactionBalance)
	}
	last := mustAppend(t, s, day(1), model.TransactionTypeIncome, 5)
	if last.FinanceTransactionBalance != 75 {
		t.Fatalf("third same-day row balance = %d, want 75", last.FinanceTransactionBalance)
	}
	if got := repo.txs[income.FinanceTransactionID].FinanceTransactionBalance; got != 100 {
		t.Fatalf("first row balance rewritten to %d", got)
	}

	rep, err := s.Verify(ctx, ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Drifts) != 0 || rep.Balance != 75 {
		t.Fatalf("verify after same-day rows: %+v", rep)
	}
	assertConsistent(t, s, repo)
}

func TestLedgerEditKeepsSameDayIdOrder(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()

	mustAppend(t, s, day(1), model.TransactionTypeIncome, 100)
	moved := mustAppend(t, s, day(2), model.TransactionTypeIncome, 10)
	mustAppend(t, s, day(2), model.TransactionTypeExpense, 50)

	// dipindah ke hari 1: id lebih besar, jadi tetap setelah pemasukan 100
	if _, err := s.Edit(ctx, treasurer, moved.FinanceTransactionID, EditPatch{Date: ptr(day(1))}); err != nil {
		t.Fatal(err)
	}
	if got := repo.txs[moved.FinanceTransactionID].FinanceTransactionBalance; got != 110 {
		t.Fatalf("moved row balance = %d, want 110", got)
	}
	assertConsistent(t, s, repo)
}

func TestBeforeComparesCalendarDays(t *testing.T) {
	wib := Row{ID: 9, Date: day(1)}
	column := Row{ID: 1, Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
	if !Before(column, wib) || Before(wib, column) {
		t.Fatal("same calendar day must order by id regardless of zone")
	}
	next := Row{ID: 1, Date: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)}
	if !Before(wib, next) {
		t.Fatal("earlier day must sort first")
	}
	if pos := Position([]Row{column, next}, wib); pos != 1 {
		t.Fatalf("position = %d, want 1", pos)
	}
}

func TestLedgerNoDriftAfterMutations(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()

	r1 := mustAppend(t, s, day(1), model.TransactionTypeIncome, 1_000)
	r2 := mustAppend(t, s, day(2), model.TransactionTypeExpense, 200)
	r3 := mustAppend(t, s, day(4), model.TransactionTypeIncome, 500)
	mustAppend(t, s, day(3), model.TransactionTypeExpense, 100)
	assertConsistent(t, s, repo)

	steps := []struct {
		name string
		run  func() error
	}{
		{"move expense later", func() error {
			_, err := s.Edit(ctx, treasurer, r2.FinanceTransactionID, EditPatch{Date: ptr(day(6))})
			return err
		}},
		{"move income earlier", func() error {
			_, err := s.Edit(ctx, treasurer, r3.FinanceTransactionID, EditPatch{Date: ptr(day(1))})
			return err
		}},
		{"flip type", func() error {
			_, err := s.Edit(ctx, treasurer, r2.FinanceTransactionID, EditPatch{Type: ptr(model.TransactionTypeIncome)})
			return err
		}},
		{"shrink income", func() error {
			_, err := s.Edit(ctx, treasurer, r1.FinanceTransactionID, EditPatch{Amount: ptr[int64](400)})
			return err
		}},
		{"delete income", func() error {
			return s.Delete(ctx, treasurer, r3.FinanceTransactionID, nil)
		}},
	}
	for _, st := range steps {
		if err := st.run(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		assertConsistent(t, s, repo)
	}

	// 400 - 100 + 200 = 500
	cur, _ := s.CurrentBalance(ctx, ledgerID)
	if cur != 500 {
		t.Fatalf("final balance = %d, want 500", cur)
	}
}

func TestLedgerVerifyIdempotent(t *testing.T) {
	s, _ := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()
	mustAppend(t, s, day(1), model.TransactionTypeIncome, 700)
	mustAppend(t, s, day(2), model.TransactionTypeExpense, 250)

	a, err := s.Verify(ctx, ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.Verify(ctx, ledgerID)
	if a.Balance != 450 || b.Balance != a.Balance || a.Transactions != 2 {
		t.Fatalf("verify not stable: %+v vs %+v", a, b)
	}
}

func TestLedgerVerifyReportsDrift(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	r := mustAppend(t, s, day(1), model.TransactionTypeIncome, 700)

	m := repo.txs[r.FinanceTransactionID]
	m.FinanceTransactionBalance = 1
	repo.txs[r.FinanceTransactionID] = m

	rep, err := s.Verify(context.Background(), ledgerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Drifts) != 1 || rep.Drifts[0].Expected != 700 || rep.Drifts[0].Stored != 1 {
		t.Fatalf("drift report = %+v", rep.Drifts)
	}
}

func TestLedgerRejectPolicy(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()
	mustAppend(t, s, day(1), model.TransactionTypeIncome, 10)

	_, err := s.Append(ctx, treasurer, ledgerID, AppendInput{Date: day(2), Type: model.TransactionTypeExpense, Amount: 20})
	if !errors.Is(err, apperror.ErrInsufficientBalance) {
		t.Fatalf("want insufficient balance, got %v", err)
	}
	if len(repo.txs) != 1 {
		t.Fatalf("rejected expense persisted: %d rows", len(repo.txs))
	}
	if repo.ledgers[ledgerID].FinanceLedgerVersion != 1 {
		t.Fatalf("version moved on rejected append: %d", repo.ledgers[ledgerID].FinanceLedgerVersion)
	}
}

func TestLedgerRejectBackdatedExpenseBreakingLaterRow(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	mustAppend(t, s, day(1), model.TransactionTypeIncome, 100)
	mustAppend(t, s, day(3), model.TransactionTypeExpense, 80)

	// saldo hari 2 cukup (100) tapi baris hari 3 akan jadi -30
	_, err := s.Append(context.Background(), treasurer, ledgerID, AppendInput{Date: day(2), Type: model.TransactionTypeExpense, Amount: 50})
	if !errors.Is(err, apperror.ErrInsufficientBalance) {
		t.Fatalf("want insufficient balance, got %v", err)
	}
	assertConsistent(t, s, repo)
}

func TestLedgerClampPolicy(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyClamp)
	ctx := context.Background()
	mustAppend(t, s, day(1), model.TransactionTypeIncome, 100)
	mustAppend(t, s, day(3), model.TransactionTypeExpense, 80)

	got := mustAppend(t, s, day(2), model.TransactionTypeExpense, 50)
	if got.FinanceTransactionAmount != 20 || got.FinanceTransactionBalance != 80 {
		t.Fatalf("clamped row = amount %d balance %d", got.FinanceTransactionAmount, got.FinanceTransactionBalance)
	}
	cur, _ := s.CurrentBalance(ctx, ledgerID)
	if cur != 0 {
		t.Fatalf("current = %d, want 0", cur)
	}

	// tidak ada ruang sama sekali
	_, err := s.Append(ctx, treasurer, ledgerID, AppendInput{Date: day(4), Type: model.TransactionTypeExpense, Amount: 1})
	if !errors.Is(err, apperror.ErrInsufficientBalance) {
		t.Fatalf("want insufficient balance with zero headroom, got %v", err)
	}
	assertConsistent(t, s, repo)
}

func TestLedgerIncomeShrinkRejectedUnderBothPolicies(t *testing.T) {
	for _, policy := range []string{configs.BalancePolicyReject, configs.BalancePolicyClamp} {
		t.Run(policy, func(t *testing.T) {
			s, repo := newSvc(policy)
			ctx := context.Background()
			in := mustAppend(t, s, day(1), model.TransactionTypeIncome, 100)
			mustAppend(t, s, day(2), model.TransactionTypeExpense, 90)

			_, err := s.Edit(ctx, treasurer, in.FinanceTransactionID, EditPatch{Amount: ptr[int64](50)})
			if !errors.Is(err, apperror.ErrInsufficientBalance) {
				t.Fatalf("edit: want insufficient balance, got %v", err)
			}
			if err := s.Delete(ctx, treasurer, in.FinanceTransactionID, nil); !errors.Is(err, apperror.ErrInsufficientBalance) {
				t.Fatalf("delete: want insufficient balance, got %v", err)
			}
			if repo.txs[in.FinanceTransactionID].FinanceTransactionAmount != 100 {
				t.Fatal("failed edit leaked into state")
			}
			assertConsistent(t, s, repo)
		})
	}
}

func TestLedgerExpectedVersionConflict(t *testing.T) {
	s, repo := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()
	r := mustAppend(t, s, day(1), model.TransactionTypeIncome, 100)
	mustAppend(t, s, day(2), model.TransactionTypeIncome, 5)

	_, err := s.Edit(ctx, treasurer, r.FinanceTransactionID, EditPatch{Amount: ptr[int64](10), ExpectedVersion: ptr[int64](1)})
	if !errors.Is(err, apperror.ErrConcurrencyConflict) || !apperror.Retryable(err) {
		t.Fatalf("want retryable conflict, got %v", err)
	}
	if _, err := s.Edit(ctx, treasurer, r.FinanceTransactionID, EditPatch{Amount: ptr[int64](10), ExpectedVersion: ptr[int64](2)}); err != nil {
		t.Fatalf("matching version: %v", err)
	}
	if err := s.Delete(ctx, treasurer, r.FinanceTransactionID, ptr[int64](2)); !errors.Is(err, apperror.ErrConcurrencyConflict) {
		t.Fatalf("stale delete: %v", err)
	}
	assertConsistent(t, s, repo)
}

func TestLedgerValidation(t *testing.T) {
	s, _ := newSvc(configs.BalancePolicyReject)
	ctx := context.Background()

	cases := []struct {
		name string
		in   AppendInput
	}{
		{"zero amount", AppendInput{Date: day(1), Type: model.TransactionTypeIncome, Amount: 0}},
		{"negative amount", AppendInput{Date: day(1), Type: model.TransactionTypeIncome, Amount: -5}},
		{"bad type", AppendInput{Date: day(1), Type: "transfer", Amount: 5}},
		{"no date", AppendInput{Type: model.TransactionTypeIncome, Amount: 5}},
		{"above ceiling", AppendInput{Date: day(1), Type: model.TransactionTypeIncome, Amount: model.MaxTransactionAmount + 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Append(ctx, treasurer, ledgerID, tc.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}

	if _, err := s.Append(ctx, helperAuth.Actor{}, ledgerID, AppendInput{Date: day(1), Type: model.TransactionTypeIncome, Amount: 5}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("anonymous actor: %v", err)
	}
	if _, err := s.Append(ctx, treasurer, uuid.New(), AppendInput{Date: day(1), Type: model.TransactionTypeIncome, Amount: 5}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown ledger: %v", err)
	}
	if _, err := s.Edit(ctx, treasurer, 999, EditPatch{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown transaction: %v", err)
	}
}

func TestHeadroom(t *testing.T) {
	rows := []Row{
		{ID: 1, Date: day(1), Type: model.TransactionTypeIncome, Amount: 100, Balance: 100},
		{ID: 2, Date: day(2), Type: model.TransactionTypeExpense, Amount: 999, Balance: 0},
		{ID: 3, Date: day(3), Type: model.TransactionTypeExpense, Amount: 70, Balance: 30},
		{ID: 4, Date: day(4), Type: model.TransactionTypeIncome, Amount: 10, Balance: 40},
		{ID: 5, Date: day(5), Type: model.TransactionTypeExpense, Amount: 35},
	}
	// 100 → (0) 100 → 30 → 40 → 5
	if got := Headroom(rows, 1); got != 5 {
		t.Fatalf("headroom = %d, want 5", got)
	}
	if got := Headroom(rows, 4); got != 40 {
		t.Fatalf("headroom at tail = %d, want 40", got)
	}
}
