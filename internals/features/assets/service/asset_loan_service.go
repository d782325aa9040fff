package service

import (
	"context"
	"strings"
	"time"

	"desaku_backend/internals/features/assets/model"
	"desaku_backend/internals/features/assets/repository"
	notif "desaku_backend/internals/features/notifications/service"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var activeStatuses = []string{model.LoanWaitingApproval, model.LoanOnLoan}

// LoanService: mesin status peminjaman aset. Setiap transisi yang menyentuh aset
// mengunci baris pinjaman dan aset dalam satu transaksi.
type LoanService struct {
	Repo   repository.Repository
	Notify notif.Notifier
	Log    *zap.Logger
	Now    func() time.Time
}

func NewLoanService(repo repository.Repository, notify notif.Notifier, log *zap.Logger) *LoanService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoanService{Repo: repo, Notify: notify, Log: log.Named("asset_loan"), Now: dbtime.Now}
}

type RequestInput struct {
	AssetID            uuid.UUID
	CitizenID          uuid.UUID
	Reason             string
	Note               *string
	ExpectedReturnDate *time.Time
}

// Request membuat pengajuan waiting_approval. Aset yang sudah punya pengajuan aktif
// atau sedang dipinjam ditolak dengan AssetUnavailable.
func (s *LoanService) Request(ctx context.Context, actor helperAuth.Actor, in RequestInput) (model.AssetLoanModel, error) {
	if actor.IsZero() {
		return model.AssetLoanModel{}, apperror.Forbidden("pemohon tidak dikenal")
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return model.AssetLoanModel{}, apperror.ValidationField("asset_loan_reason", "alasan peminjaman wajib diisi")
	}
	if in.CitizenID == uuid.Nil {
		return model.AssetLoanModel{}, apperror.ValidationField("asset_loan_citizen_id", "peminjam wajib diisi")
	}
	if in.ExpectedReturnDate != nil {
		d := dbtime.TruncateDay(*in.ExpectedReturnDate)
		if d.Before(dbtime.TruncateDay(s.Now())) {
			return model.AssetLoanModel{}, apperror.ValidationField("asset_loan_expected_return_date", "tanggal kembali tidak boleh di masa lalu")
		}
		in.ExpectedReturnDate = &d
	}
	if _, err := s.Repo.Borrower(ctx, in.CitizenID); err != nil {
		return model.AssetLoanModel{}, err
	}

	var out model.AssetLoanModel
	err := s.Repo.InTx(ctx, func(tx repository.Tx) error {
		asset, err := tx.LockAsset(in.AssetID)
		if err != nil {
			return err
		}
		if asset.AssetStatus != model.AssetStatusIdle {
			return apperror.AssetUnavailable("aset %s sedang dipinjam", asset.AssetName)
		}
		busy, err := tx.ActiveLoanExists(asset.AssetID, activeStatuses, uuid.Nil)
		if err != nil {
			return err
		}
		if busy {
			return apperror.AssetUnavailable("aset %s sudah memiliki pengajuan aktif", asset.AssetName)
		}

		out = model.AssetLoanModel{
			AssetLoanAssetID:            asset.AssetID,
			AssetLoanCitizenID:          in.CitizenID,
			AssetLoanStatus:             model.LoanWaitingApproval,
			AssetLoanReason:             in.Reason,
			AssetLoanNote:               in.Note,
			AssetLoanExpectedReturnDate: in.ExpectedReturnDate,
			AssetLoanRequestedBy:        actor.UserID,
		}
		return tx.CreateLoan(&out)
	})
	if err != nil {
		return model.AssetLoanModel{}, err
	}
	return out, nil
}

// Approve: waiting_approval → on_loan, aset idle → onloan dalam satu transaksi.
func (s *LoanService) Approve(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, expectedReturn time.Time, note *string) (model.AssetLoanModel, error) {
	if actor.IsZero() {
		return model.AssetLoanModel{}, apperror.Forbidden("penyetuju tidak dikenal")
	}
	now := s.Now()
	if expectedReturn.IsZero() {
		return model.AssetLoanModel{}, apperror.ValidationField("asset_loan_expected_return_date", "tanggal kembali wajib diisi")
	}
	due := dbtime.TruncateDay(expectedReturn)
	if due.Before(dbtime.TruncateDay(now)) {
		return model.AssetLoanModel{}, apperror.ValidationField("asset_loan_expected_return_date", "tanggal kembali tidak boleh di masa lalu")
	}

	var (
		loan  model.AssetLoanModel
		asset model.AssetModel
	)
	err := s.Repo.InTx(ctx, func(tx repository.Tx) error {
		var err error
		if loan, err = tx.LockLoan(id); err != nil {
			return err
		}
		if !model.CanTransition(loan.AssetLoanStatus, model.LoanOnLoan) {
			return apperror.InvalidTransition(loan.AssetLoanStatus, model.LoanOnLoan)
		}
		if asset, err = tx.LockAsset(loan.AssetLoanAssetID); err != nil {
			return err
		}
		if asset.AssetStatus != model.AssetStatusIdle {
			return apperror.AssetUnavailable("aset %s sedang dipinjam", asset.AssetName)
		}
		onLoan, err := tx.ActiveLoanExists(asset.AssetID, []string{model.LoanOnLoan}, loan.AssetLoanID)
		if err != nil {
			return err
		}
		if onLoan {
			return apperror.AssetUnavailable("aset %s sedang dipinjam", asset.AssetName)
		}

		decider := actor.UserID
		fields := map[string]any{
			"asset_loan_status":               model.LoanOnLoan,
			"asset_loan_borrowed_at":          now,
			"asset_loan_expected_return_date": due,
			"asset_loan_decided_by":           decider,
		}
		if note != nil {
			fields["asset_loan_note"] = *note
			loan.AssetLoanNote = note
		}
		if err := tx.UpdateLoan(loan.AssetLoanID, model.LoanWaitingApproval, fields); err != nil {
			return err
		}
		if err := tx.SetAssetStatus(asset.AssetID, model.AssetStatusIdle, model.AssetStatusOnLoan); err != nil {
			return err
		}
		loan.AssetLoanStatus = model.LoanOnLoan
		loan.AssetLoanBorrowedAt = &now
		loan.AssetLoanExpectedReturnDate = &due
		loan.AssetLoanDecidedBy = &decider
		return nil
	})
	if err != nil {
		return model.AssetLoanModel{}, err
	}

	s.notify(ctx, loan, asset.AssetName, model.LoanWaitingApproval, note)
	return loan, nil
}

// Reject: waiting_approval → rejected. Aset tidak disentuh.
func (s *LoanService) Reject(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, note *string) (model.AssetLoanModel, error) {
	if actor.IsZero() {
		return model.AssetLoanModel{}, apperror.Forbidden("penolak tidak dikenal")
	}
	var loan model.AssetLoanModel
	err := s.Repo.InTx(ctx, func(tx repository.Tx) error {
		var err error
		if loan, err = tx.LockLoan(id); err != nil {
			return err
		}
		if !model.CanTransition(loan.AssetLoanStatus, model.LoanRejected) {
			return apperror.InvalidTransition(loan.AssetLoanStatus, model.LoanRejected)
		}
		decider := actor.UserID
		fields := map[string]any{
			"asset_loan_status":     model.LoanRejected,
			"asset_loan_decided_by": decider,
		}
		if note != nil {
			fields["asset_loan_note"] = *note
			loan.AssetLoanNote = note
		}
		if err := tx.UpdateLoan(loan.AssetLoanID, model.LoanWaitingApproval, fields); err != nil {
			return err
		}
		loan.AssetLoanStatus = model.LoanRejected
		loan.AssetLoanDecidedBy = &decider
		return nil
	})
	if err != nil {
		return model.AssetLoanModel{}, err
	}

	assetName := ""
	if a, err := s.Repo.FindAsset(ctx, loan.AssetLoanAssetID); err == nil {
		assetName = a.AssetName
	}
	s.notify(ctx, loan, assetName, model.LoanWaitingApproval, note)
	return loan, nil
}

type ReturnInput struct {
	ProofImage    string
	ConditionNote *string
}

// Return: on_loan → returned, aset kembali idle. Bukti serah terima wajib.
func (s *LoanService) Return(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in ReturnInput) (model.AssetLoanModel, error) {
	if actor.IsZero() {
		return model.AssetLoanModel{}, apperror.Forbidden("petugas tidak dikenal")
	}
	if strings.TrimSpace(in.ProofImage) == "" {
		return model.AssetLoanModel{}, apperror.ValidationField("asset_loan_return_proof_image", "foto bukti pengembalian wajib diunggah")
	}

	var loan model.AssetLoanModel
	err := s.Repo.InTx(ctx, func(tx repository.Tx) error {
		var err error
		if loan, err = tx.LockLoan(id); err != nil {
			return err
		}
		if !model.CanTransition(loan.AssetLoanStatus, model.LoanReturned) {
			return apperror.InvalidTransition(loan.AssetLoanStatus, model.LoanReturned)
		}
		asset, err := tx.LockAsset(loan.AssetLoanAssetID)
		if err != nil {
			return err
		}

		returnedAt := s.Now()
		if loan.AssetLoanBorrowedAt != nil && returnedAt.Before(*loan.AssetLoanBorrowedAt) {
			returnedAt = *loan.AssetLoanBorrowedAt
		}
		fields := map[string]any{
			"asset_loan_status":             model.LoanReturned,
			"asset_loan_returned_at":        returnedAt,
			"asset_loan_return_proof_image": in.ProofImage,
		}
		if in.ConditionNote != nil {
			fields["asset_loan_return_condition_note"] = *in.ConditionNote
		}
		if err := tx.UpdateLoan(loan.AssetLoanID, model.LoanOnLoan, fields); err != nil {
			return err
		}
		if err := tx.SetAssetStatus(asset.AssetID, model.AssetStatusOnLoan, model.AssetStatusIdle); err != nil {
			return err
		}
		loan.AssetLoanStatus = model.LoanReturned
		loan.AssetLoanReturnedAt = &returnedAt
		loan.AssetLoanReturnProofImage = &in.ProofImage
		loan.AssetLoanReturnConditionNote = in.ConditionNote
		return nil
	})
	if err != nil {
		return model.AssetLoanModel{}, err
	}
	return loan, nil
}

// RemindOverdue mengirim pengingat untuk pinjaman yang lewat tenggat. Dipanggil cron harian.
func (s *LoanService) RemindOverdue(ctx context.Context) (int, error) {
	if s.Notify == nil {
		return 0, nil
	}
	now := s.Now()
	loans, err := s.Repo.OverdueLoans(ctx, dbtime.TruncateDay(now))
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, l := range loans {
		assetName := ""
		if a, err := s.Repo.FindAsset(ctx, l.AssetLoanAssetID); err == nil {
			assetName = a.AssetName
		}
		ev := s.event(ctx, l, assetName, model.LoanOnLoan, nil)
		ev.NewStatus = notif.StatusOverdue
		s.Notify.Dispatch(ctx, ev)

		if err := s.Repo.MarkReminded(ctx, l.AssetLoanID, now); err != nil {
			s.Log.Warn("mark reminded", zap.String("loan", l.AssetLoanID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *LoanService) event(ctx context.Context, l model.AssetLoanModel, assetName, from string, note *string) notif.Event {
	meta := map[string]string{"asset_name": assetName}
	if c, err := s.Repo.Borrower(ctx, l.AssetLoanCitizenID); err == nil {
		meta[notif.MetaRecipientEmail] = c.Email
		meta[notif.MetaRecipientName] = c.Name
	} else {
		s.Log.Warn("borrower lookup", zap.String("loan", l.AssetLoanID.String()), zap.Error(err))
	}
	if l.AssetLoanExpectedReturnDate != nil {
		meta["expected_return_date"] = dbtime.FormatDate(*l.AssetLoanExpectedReturnDate)
	}
	if note != nil {
		meta[notif.MetaAdminNote] = *note
	}
	return notif.Event{
		EntityType: notif.EntityAssetLoan,
		EntityID:   l.AssetLoanID.String(),
		OldStatus:  from,
		NewStatus:  l.AssetLoanStatus,
		Metadata:   meta,
	}
}

// notify dipanggil setelah commit; kegagalan tidak mempengaruhi transisi.
func (s *LoanService) notify(ctx context.Context, l model.AssetLoanModel, assetName, from string, note *string) {
	if s.Notify == nil {
		return
	}
	s.Notify.Dispatch(ctx, s.event(ctx, l, assetName, from, note))
}
