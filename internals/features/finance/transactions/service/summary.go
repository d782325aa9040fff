package service

import (
	"desaku_backend/internals/features/finance/transactions/dto"
	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/features/finance/transactions/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildYearSummary menyusun 12 bulan penuh; bulan tanpa transaksi bernilai nol.
func BuildYearSummary(ledgerID uuid.UUID, year int, totals []repository.MonthTotal, balance int64) dto.YearSummaryResponse {
	months := make([]dto.MonthlySummary, 12)
	for i := range months {
		months[i] = dto.MonthlySummary{Month: i + 1, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
	}

	res := dto.YearSummaryResponse{
		LedgerID:     ledgerID,
		Year:         year,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Balance:      balance,
	}
	for _, t := range totals {
		if t.Month < 1 || t.Month > 12 {
			continue
		}
		m := &months[t.Month-1]
		switch t.Type {
		case model.TransactionTypeIncome:
			m.Income = m.Income.Add(t.Total)
			res.TotalIncome = res.TotalIncome.Add(t.Total)
		case model.TransactionTypeExpense:
			m.Expense = m.Expense.Add(t.Total)
			res.TotalExpense = res.TotalExpense.Add(t.Total)
		}
	}
	for i := range months {
		months[i].Net = months[i].Income.Sub(months[i].Expense)
	}
	res.Months = months
	return res
}
