package service

import (
	"context"
	"fmt"
	"time"

	"desaku_backend/internals/configs"
	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/features/finance/transactions/repository"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService menjaga invariant saldo berjalan. Setiap mutasi mengunci baris ledger,
// memuat urutan transaksi, menghitung ulang dari posisi terdampak, lalu menulis hanya
// saldo yang berubah. Biaya O(n) terhadap baris setelah posisi tersebut.
type LedgerService struct {
	Repo   repository.Repository
	Policy string
	Log    *zap.Logger
}

func NewLedgerService(repo repository.Repository, policy string, log *zap.Logger) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	if policy != configs.BalancePolicyClamp {
		policy = configs.BalancePolicyReject
	}
	return &LedgerService{Repo: repo, Policy: policy, Log: log.Named("ledger")}
}

type AppendInput struct {
	Date       time.Time
	Type       string
	Amount     int64
	Note       *string
	ProofImage *string
}

// EditPatch: field nil tidak diubah. ExpectedVersion opsional untuk optimistic check dari klien.
type EditPatch struct {
	Date            *time.Time
	Type            *string
	Amount          *int64
	Note            *string
	ProofImage      *string
	ExpectedVersion *int64
}

func validateFields(typ string, amount int64, date time.Time) error {
	if !model.IsValidTransactionType(typ) {
		return apperror.ValidationField("type", "type harus income atau expense")
	}
	if amount <= 0 {
		return apperror.ValidationField("amount", "amount harus lebih dari 0")
	}
	if amount > model.MaxTransactionAmount {
		return apperror.ValidationField("amount", fmt.Sprintf("amount melebihi batas %d", model.MaxTransactionAmount))
	}
	if date.IsZero() {
		return apperror.ValidationField("date", "date wajib diisi")
	}
	return nil
}

func checkVersion(l model.FinanceLedgerModel, expected *int64) error {
	if expected != nil && *expected != l.FinanceLedgerVersion {
		return apperror.Conflict("versi buku kas %d tidak sesuai (sekarang %d), muat ulang lalu ulangi",
			*expected, l.FinanceLedgerVersion)
	}
	return nil
}

func toRows(ts []model.FinanceTransactionModel) []Row {
	rows := make([]Row, len(ts))
	for i, t := range ts {
		rows[i] = rowFromModel(t)
	}
	return rows
}

// settle menerapkan kebijakan saldo pada baris termutasi di pos, menghitung ulang
// dari from, dan mengembalikan indeks yang saldonya berbeda dari nilai tersimpan.
func (s *LedgerService) settle(rows []Row, pos, from int) ([]int, error) {
	stored := make([]int64, len(rows))
	for i := range rows {
		stored[i] = rows[i].Balance
	}

	r := &rows[pos]
	if r.Type == model.TransactionTypeExpense {
		want := r.Amount
		r.Amount = 0
		Recompute(rows, from)
		room := Headroom(rows, pos)
		r.Amount = want
		if want > room {
			if s.Policy != configs.BalancePolicyClamp || room <= 0 {
				return nil, apperror.InsufficientBalance(max(room, 0), want)
			}
			s.Log.Info("expense clamped", zap.Int64("requested", want), zap.Int64("clamped", room))
			r.Amount = room
		}
	}

	Recompute(rows, from)
	if i := FirstNegative(rows, from); i >= 0 {
		return nil, apperror.InsufficientBalance(rows[i].Balance-Signed(rows[i]), -Signed(rows[i]))
	}

	var changed []int
	for i := from; i < len(rows); i++ {
		if rows[i].Balance != stored[i] {
			changed = append(changed, i)
		}
	}
	return changed, nil
}

func balancesFor(rows []Row, idx []int, skipID int64) map[int64]int64 {
	out := make(map[int64]int64, len(idx))
	for _, i := range idx {
		if rows[i].ID == skipID {
			continue
		}
		out[rows[i].ID] = rows[i].Balance
	}
	return out
}

// Append mencatat transaksi baru. Tanggal mundur diperbolehkan dan memicu
// hitung ulang baris setelahnya.
func (s *LedgerService) Append(ctx context.Context, actor helperAuth.Actor, ledgerID uuid.UUID, in AppendInput) (model.FinanceTransactionModel, error) {
	if actor.IsZero() {
		return model.FinanceTransactionModel{}, apperror.Forbidden("pencatat transaksi tidak dikenal")
	}
	in.Date = dbtime.CalendarDay(in.Date)
	if err := validateFields(in.Type, in.Amount, in.Date); err != nil {
		return model.FinanceTransactionModel{}, err
	}

	var out model.FinanceTransactionModel
	err := s.Repo.InTx(ctx, func(tx repository.Tx) error {
		ledger, err := tx.LockLedger(ledgerID)
		if err != nil {
			return err
		}
		existing, err := tx.ListOrdered(ledgerID)
		if err != nil {
			return err
		}
		rows := toRows(existing)

		nr := Row{ID: pendingID, Date: in.Date, Type: in.Type, Amount: in.Amount}
		pos := Position(rows, nr)
		rows = append(rows, Row{})
		copy(rows[pos+1:], rows[pos:])
		rows[pos] = nr

		changed, err := s.settle(rows, pos, pos)
		if err != nil {
			return err
		}

		out = model.FinanceTransactionModel{
			FinanceTransactionLedgerID: ledgerID,
			FinanceTransactionDate:     in.Date,
			FinanceTransactionType:     in.Type,
			FinanceTransactionAmount:   rows[pos].Amount,
			FinanceTransactionBalance:  rows[pos].Balance,
			FinanceTransactionNote:     in.Note,
			FinanceTransactionRecordBy: actor.UserID,
			FinanceTransactionProof:    in.ProofImage,
		}
		if err := tx.Insert(&out); err != nil {
			return err
		}
		if err := tx.SetBalances(balancesFor(rows, changed, pendingID)); err != nil {
			return err
		}
		return tx.BumpVersion(ledgerID, ledger.FinanceLedgerVersion, Last(rows))
	})
	if err != nil {
		return model.FinanceTransactionModel{}, err
	}
	return out, nil
}

// Edit mengubah transaksi lalu menghitung ulang dari posisi terawal antara posisi lama dan baru.
func (s *LedgerService) Edit(ctx context.Context, actor helperAuth.Actor, id int64, p EditPatch) (model.FinanceTransactionModel, error) {
	if actor.IsZero() {
		return model.FinanceTransactionModel{}, apperror.Forbidden("pengubah transaksi tidak dikenal")
	}
	current, err := s.Repo.FindTransaction(ctx, id)
	if err != nil {
		return model.FinanceTransactionModel{}, err
	}
	ledgerID := current.FinanceTransactionLedgerID

	var out model.FinanceTransactionModel
	err = s.Repo.InTx(ctx, func(tx repository.Tx) error {
		ledger, err := tx.LockLedger(ledgerID)
		if err != nil {
			return err
		}
		if err := checkVersion(ledger, p.ExpectedVersion); err != nil {
			return err
		}
		target, err := tx.FindTransaction(id)
		if err != nil {
			return err
		}
		if target.FinanceTransactionLedgerID != ledgerID {
			return apperror.Conflict("transaksi berpindah buku kas, silakan ulangi")
		}

		if p.Date != nil {
			target.FinanceTransactionDate = dbtime.CalendarDay(*p.Date)
		}
		if p.Type != nil {
			target.FinanceTransactionType = *p.Type
		}
		if p.Amount != nil {
			target.FinanceTransactionAmount = *p.Amount
		}
		if p.Note != nil {
			target.FinanceTransactionNote = p.Note
		}
		if p.ProofImage != nil {
			target.FinanceTransactionProof = p.ProofImage
		}
		if err := validateFields(target.FinanceTransactionType, target.FinanceTransactionAmount, target.FinanceTransactionDate); err != nil {
			return err
		}

		existing, err := tx.ListOrdered(ledgerID)
		if err != nil {
			return err
		}
		rows := toRows(existing)

		oldPos := -1
		for i := range rows {
			if rows[i].ID == id {
				oldPos = i
				break
			}
		}
		if oldPos < 0 {
			return apperror.NotFound("Transaksi")
		}
		rows = append(rows[:oldPos], rows[oldPos+1:]...)

		edited := rowFromModel(target)
		newPos := Position(rows, edited)
		rows = append(rows, Row{})
		copy(rows[newPos+1:], rows[newPos:])
		rows[newPos] = edited

		// Dari posisi terawal: baris di antara posisi lama dan baru ikut bergeser saldonya.
		changed, err := s.settle(rows, newPos, min(oldPos, newPos))
		if err != nil {
			return err
		}

		target.FinanceTransactionAmount = rows[newPos].Amount
		target.FinanceTransactionBalance = rows[newPos].Balance
		editor := actor.UserID
		target.FinanceTransactionEditedBy = &editor
		if err := tx.Save(&target); err != nil {
			return err
		}
		if err := tx.SetBalances(balancesFor(rows, changed, id)); err != nil {
			return err
		}
		out = target
		return tx.BumpVersion(ledgerID, ledger.FinanceLedgerVersion, Last(rows))
	})
	if err != nil {
		return model.FinanceTransactionModel{}, err
	}
	return out, nil
}

// Delete menghapus transaksi lalu menghitung ulang baris setelahnya.
func (s *LedgerService) Delete(ctx context.Context, actor helperAuth.Actor, id int64, expectedVersion *int64) error {
	if actor.IsZero() {
		return apperror.Forbidden("penghapus transaksi tidak dikenal")
	}
	current, err := s.Repo.FindTransaction(ctx, id)
	if err != nil {
		return err
	}
	ledgerID := current.FinanceTransactionLedgerID

	return s.Repo.InTx(ctx, func(tx repository.Tx) error {
		ledger, err := tx.LockLedger(ledgerID)
		if err != nil {
			return err
		}
		if err := checkVersion(ledger, expectedVersion); err != nil {
			return err
		}
		existing, err := tx.ListOrdered(ledgerID)
		if err != nil {
			return err
		}
		rows := toRows(existing)

		pos := -1
		for i := range rows {
			if rows[i].ID == id {
				pos = i
				break
			}
		}
		if pos < 0 {
			return apperror.NotFound("Transaksi")
		}
		rows = append(rows[:pos], rows[pos+1:]...)

		changed := Recompute(rows, pos)
		if i := FirstNegative(rows, pos); i >= 0 {
			return apperror.InsufficientBalance(rows[i].Balance-Signed(rows[i]), -Signed(rows[i]))
		}

		if err := tx.Delete(id); err != nil {
			return err
		}
		if err := tx.SetBalances(balancesFor(rows, changed, 0)); err != nil {
			return err
		}
		s.Log.Info("transaction deleted", zap.Int64("id", id), zap.String("by", actor.UserID.String()))
		return tx.BumpVersion(ledgerID, ledger.FinanceLedgerVersion, Last(rows))
	})
}

// CurrentBalance: remaining_balance transaksi terakhir menurut urutan ledger, 0 bila kosong.
func (s *LedgerService) CurrentBalance(ctx context.Context, ledgerID uuid.UUID) (int64, error) {
	return s.Repo.LastBalance(ctx, ledgerID)
}

type Drift struct {
	TransactionID int64 `json:"finance_transaction_id"`
	Stored        int64 `json:"stored_balance"`
	Expected      int64 `json:"expected_balance"`
}

type VerifyReport struct {
	LedgerID     uuid.UUID `json:"finance_ledger_id"`
	Transactions int       `json:"transactions"`
	Balance      int64     `json:"balance"`
	Drifts       []Drift   `json:"drifts"`
}

// Verify memutar ulang seluruh ledger dari nol dan melaporkan saldo tersimpan yang menyimpang.
func (s *LedgerService) Verify(ctx context.Context, ledgerID uuid.UUID) (VerifyReport, error) {
	ts, err := s.Repo.ListOrdered(ctx, ledgerID)
	if err != nil {
		return VerifyReport{}, err
	}
	rows := toRows(ts)
	want := Replay(rows)

	rep := VerifyReport{LedgerID: ledgerID, Transactions: len(rows), Drifts: []Drift{}}
	for i, r := range rows {
		if r.Balance != want[i] {
			rep.Drifts = append(rep.Drifts, Drift{TransactionID: r.ID, Stored: r.Balance, Expected: want[i]})
		}
	}
	if len(want) > 0 {
		rep.Balance = want[len(want)-1]
	}
	if len(rep.Drifts) > 0 {
		s.Log.Warn("ledger drift detected", zap.String("ledger", ledgerID.String()), zap.Int("rows", len(rep.Drifts)))
	}
	return rep, nil
}
