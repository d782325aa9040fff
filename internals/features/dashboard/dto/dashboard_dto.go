package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Counts struct {
	Citizens              int64 `json:"citizens"`
	Families              int64 `json:"families"`
	Assets                int64 `json:"assets"`
	AssetsOnLoan          int64 `json:"assets_on_loan"`
	LoansWaitingApproval  int64 `json:"loans_waiting_approval"`
	ApplicationsPending   int64 `json:"applications_pending"`
	ApplicationsInProcess int64 `json:"applications_in_process"`
	UpcomingEvents        int64 `json:"upcoming_events"`
}

type LedgerSnapshot struct {
	LedgerID     uuid.UUID       `json:"finance_ledger_id"`
	Name         string          `json:"finance_ledger_name"`
	Balance      int64           `json:"balance"`
	MonthIncome  decimal.Decimal `json:"month_income"`
	MonthExpense decimal.Decimal `json:"month_expense"`
	MonthNet     decimal.Decimal `json:"month_net"`
}

type DashboardResponse struct {
	Counts Counts          `json:"counts"`
	Ledger *LedgerSnapshot `json:"ledger,omitempty"`
	Month  string          `json:"month"`
}
