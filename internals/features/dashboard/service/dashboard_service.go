package service

import (
	"context"
	"errors"
	"time"

	assetModel "desaku_backend/internals/features/assets/model"
	"desaku_backend/internals/features/dashboard/dto"
	docModel "desaku_backend/internals/features/documents/model"
	eventModel "desaku_backend/internals/features/events/model"
	finModel "desaku_backend/internals/features/finance/transactions/model"
	finRepo "desaku_backend/internals/features/finance/transactions/repository"
	finService "desaku_backend/internals/features/finance/transactions/service"
	popRepo "desaku_backend/internals/features/population/repository"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardService struct {
	DB     *gorm.DB
	Ledger *finService.LedgerService
	// LedgerName: buku kas yang ditampilkan (FINANCE_DEFAULT_LEDGER).
	LedgerName string
	Now        func() time.Time
}

func NewDashboardService(db *gorm.DB, ledger *finService.LedgerService, ledgerName string) *DashboardService {
	return &DashboardService{DB: db, Ledger: ledger, LedgerName: ledgerName, Now: dbtime.Now}
}

func (s *DashboardService) Build(ctx context.Context) (dto.DashboardResponse, error) {
	now := s.Now()
	out := dto.DashboardResponse{Month: now.Format("2006-01")}

	var err error
	if out.Counts.Citizens, err = popRepo.CountCitizens(ctx, s.DB); err != nil {
		return out, err
	}
	if out.Counts.Families, err = popRepo.CountFamilies(ctx, s.DB); err != nil {
		return out, err
	}

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&out.Counts.Assets, &assetModel.AssetModel{}, "", nil},
		{&out.Counts.AssetsOnLoan, &assetModel.AssetModel{}, "asset_status = ?", []any{assetModel.AssetStatusOnLoan}},
		{&out.Counts.LoansWaitingApproval, &assetModel.AssetLoanModel{}, "asset_loan_status = ?", []any{assetModel.LoanWaitingApproval}},
		{&out.Counts.ApplicationsPending, &docModel.ApplicationDocumentModel{}, "application_document_status = ?", []any{docModel.ApplicationPending}},
		{&out.Counts.ApplicationsInProcess, &docModel.ApplicationDocumentModel{}, "application_document_status = ?", []any{docModel.ApplicationOnProccess}},
		{&out.Counts.UpcomingEvents, &eventModel.EventModel{}, "event_start_at >= ?", []any{now}},
	}
	for _, c := range counts {
		q := s.DB.WithContext(ctx).Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return out, err
		}
	}

	snap, err := s.ledger(ctx, now)
	if err != nil {
		return out, err
	}
	out.Ledger = snap
	return out, nil
}

// ledger: nil bila buku kas default belum dibuat.
func (s *DashboardService) ledger(ctx context.Context, now time.Time) (*dto.LedgerSnapshot, error) {
	l, err := finRepo.FindLedgerByName(ctx, s.DB, s.LedgerName)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	bal, err := s.Ledger.CurrentBalance(ctx, l.FinanceLedgerID)
	if err != nil {
		return nil, err
	}
	from, to := dbtime.MonthRange(now.Year(), now.Month())
	totals, err := finRepo.MonthlyTotals(ctx, s.DB, l.FinanceLedgerID, from, to)
	if err != nil {
		return nil, err
	}
	in, ex := MonthFlow(totals)
	return &dto.LedgerSnapshot{
		LedgerID:     l.FinanceLedgerID,
		Name:         l.FinanceLedgerName,
		Balance:      bal,
		MonthIncome:  in,
		MonthExpense: ex,
		MonthNet:     in.Sub(ex),
	}, nil
}

// MonthFlow menjumlahkan pemasukan & pengeluaran dari hasil MonthlyTotals.
func MonthFlow(totals []finRepo.MonthTotal) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range totals {
		switch t.Type {
		case finModel.TransactionTypeIncome:
			income = income.Add(t.Total)
		case finModel.TransactionTypeExpense:
			expense = expense.Add(t.Total)
		}
	}
	return income, expense
}
