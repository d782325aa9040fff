package service

import (
	"testing"

	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/features/finance/transactions/repository"

	"github.com/shopspring/decimal"
)

func TestBuildYearSummary(t *testing.T) {
	totals := []repository.MonthTotal{
		{Month: 1, Type: model.TransactionTypeIncome, Total: decimal.NewFromInt(50_000_000)},
		{Month: 1, Type: model.TransactionTypeExpense, Total: decimal.NewFromInt(5_000_000)},
		{Month: 3, Type: model.TransactionTypeExpense, Total: decimal.NewFromInt(1_500_000)},
		{Month: 13, Type: model.TransactionTypeIncome, Total: decimal.NewFromInt(1)},
	}
	res := BuildYearSummary(ledgerID, 2025, totals, 43_500_000)

	if len(res.Months) != 12 {
		t.Fatalf("months = %d", len(res.Months))
	}
	if !res.Months[0].Net.Equal(decimal.NewFromInt(45_000_000)) {
		t.Fatalf("january net = %s", res.Months[0].Net)
	}
	if !res.Months[1].Income.IsZero() || !res.Months[1].Expense.IsZero() {
		t.Fatalf("february should be empty: %+v", res.Months[1])
	}
	if !res.Months[2].Net.Equal(decimal.NewFromInt(-1_500_000)) {
		t.Fatalf("march net = %s", res.Months[2].Net)
	}
	if !res.TotalIncome.Equal(decimal.NewFromInt(50_000_000)) || !res.TotalExpense.Equal(decimal.NewFromInt(6_500_000)) {
		t.Fatalf("totals = %s / %s", res.TotalIncome, res.TotalExpense)
	}
}
