package dto

import (
	"fmt"
	"strings"
	"time"

	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ===================== Amount ===================== */

// Amount: rupiah bulat. Menerima angka JSON maupun string angka.
type Amount int64

func ParseAmount(s string) (Amount, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return 0, apperror.ValidationField("amount", "amount wajib diisi")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperror.ValidationField("amount", "amount bukan angka")
	}
	if !d.IsInteger() {
		return 0, apperror.ValidationField("amount", "amount harus bilangan bulat rupiah")
	}
	if !d.IsPositive() {
		return 0, apperror.ValidationField("amount", "amount harus lebih dari 0")
	}
	if d.GreaterThan(decimal.NewFromInt(model.MaxTransactionAmount)) {
		return 0, apperror.ValidationField("amount", fmt.Sprintf("amount melebihi batas %d", model.MaxTransactionAmount))
	}
	return Amount(d.IntPart()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	v, err := ParseAmount(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

/* ===================== Ledger ===================== */

type CreateLedgerRequest struct {
	FinanceLedgerName string `json:"finance_ledger_name" validate:"required,min=3,max=120"`
}

/* ===================== Transactions ===================== */

// CreateTransactionRequest dibaca dari JSON atau multipart (proof_image sebagai file).
type CreateTransactionRequest struct {
	Date   string  `json:"finance_transaction_date"   form:"finance_transaction_date"   validate:"required"`
	Type   string  `json:"finance_transaction_type"   form:"finance_transaction_type"   validate:"required,oneof=income expense"`
	Amount Amount  `json:"finance_transaction_amount" form:"finance_transaction_amount" validate:"required"`
	Note   *string `json:"finance_transaction_note"   form:"finance_transaction_note"   validate:"omitempty,max=1000"`
}

func (r CreateTransactionRequest) ParsedDate() (time.Time, error) {
	d, err := dbtime.ParseDate(r.Date)
	if err != nil {
		return time.Time{}, apperror.ValidationField("finance_transaction_date", "format tanggal YYYY-MM-DD")
	}
	return d, nil
}

// UpdateTransactionRequest: field kosong tidak diubah.
type UpdateTransactionRequest struct {
	Date            *string `json:"finance_transaction_date"   form:"finance_transaction_date"`
	Type            *string `json:"finance_transaction_type"   form:"finance_transaction_type" validate:"omitempty,oneof=income expense"`
	Amount          *Amount `json:"finance_transaction_amount" form:"finance_transaction_amount"`
	Note            *string `json:"finance_transaction_note"   form:"finance_transaction_note" validate:"omitempty,max=1000"`
	ExpectedVersion *int64  `json:"finance_ledger_version"     form:"finance_ledger_version"`
}

func (r UpdateTransactionRequest) ParsedDate() (*time.Time, error) {
	if r.Date == nil || strings.TrimSpace(*r.Date) == "" {
		return nil, nil
	}
	d, err := dbtime.ParseDate(*r.Date)
	if err != nil {
		return nil, apperror.ValidationField("finance_transaction_date", "format tanggal YYYY-MM-DD")
	}
	return &d, nil
}

type TransactionResponse struct {
	ID         int64      `json:"finance_transaction_id"`
	LedgerID   uuid.UUID  `json:"finance_transaction_ledger_id"`
	Date       string     `json:"finance_transaction_date"`
	Type       string     `json:"finance_transaction_type"`
	Amount     int64      `json:"finance_transaction_amount"`
	Balance    int64      `json:"finance_transaction_remaining_balance"`
	Note       *string    `json:"finance_transaction_note,omitempty"`
	ProofImage *string    `json:"finance_transaction_proof_image,omitempty"`
	RecordedBy uuid.UUID  `json:"finance_transaction_recorded_by"`
	EditedBy   *uuid.UUID `json:"finance_transaction_edited_by,omitempty"`
	CreatedAt  time.Time  `json:"finance_transaction_created_at"`
	UpdatedAt  time.Time  `json:"finance_transaction_updated_at"`
}

func ToTransactionResponse(m model.FinanceTransactionModel) TransactionResponse {
	return TransactionResponse{
		ID:         m.FinanceTransactionID,
		LedgerID:   m.FinanceTransactionLedgerID,
		Date:       dbtime.FormatDate(m.FinanceTransactionDate),
		Type:       m.FinanceTransactionType,
		Amount:     m.FinanceTransactionAmount,
		Balance:    m.FinanceTransactionBalance,
		Note:       m.FinanceTransactionNote,
		ProofImage: m.FinanceTransactionProof,
		RecordedBy: m.FinanceTransactionRecordBy,
		EditedBy:   m.FinanceTransactionEditedBy,
		CreatedAt:  m.FinanceTransactionCreatedAt,
		UpdatedAt:  m.FinanceTransactionUpdatedAt,
	}
}

func ToTransactionResponses(ms []model.FinanceTransactionModel) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToTransactionResponse(m))
	}
	return out
}

/* ===================== Summary ===================== */

type MonthlySummary struct {
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type YearSummaryResponse struct {
	LedgerID     uuid.UUID        `json:"finance_ledger_id"`
	Year         int              `json:"year"`
	Months       []MonthlySummary `json:"months"`
	TotalIncome  decimal.Decimal  `json:"total_income"`
	TotalExpense decimal.Decimal  `json:"total_expense"`
	Balance      int64            `json:"balance"`
}
