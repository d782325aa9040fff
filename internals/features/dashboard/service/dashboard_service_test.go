package service

import (
	"testing"

	finRepo "desaku_backend/internals/features/finance/transactions/repository"

	"github.com/shopspring/decimal"
)

func TestMonthFlow(t *testing.T) {
	in, ex := MonthFlow(nil)
	if !in.IsZero() || !ex.IsZero() {
		t.Fatalf("empty = %s/%s", in, ex)
	}

	in, ex = MonthFlow([]finRepo.MonthTotal{
		{Month: 3, Type: "income", Total: decimal.NewFromInt(50_000_000)},
		{Month: 3, Type: "expense", Total: decimal.NewFromInt(5_000_000)},
		{Month: 3, Type: "income", Total: decimal.NewFromInt(1_500_000)},
		{Month: 3, Type: "other", Total: decimal.NewFromInt(9)},
	})
	if !in.Equal(decimal.NewFromInt(51_500_000)) || !ex.Equal(decimal.NewFromInt(5_000_000)) {
		t.Fatalf("flow = %s/%s", in, ex)
	}
}
