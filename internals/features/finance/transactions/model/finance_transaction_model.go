package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// MaxTransactionAmount: batas nominal satu transaksi (Rp1 kuadriliun). Saldo berjalan
// ribuan baris berbatas ini tetap jauh di bawah batas int64.
const MaxTransactionAmount int64 = 1_000_000_000_000_000

func IsValidTransactionType(t string) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// FinanceTransactionModel: satu baris buku kas. Urutan ledger = (date ASC, id ASC);
// remaining_balance = saldo berjalan sampai baris ini.
type FinanceTransactionModel struct {
	FinanceTransactionID       int64      `json:"finance_transaction_id"                gorm:"column:finance_transaction_id;primaryKey;autoIncrement;index:idx_fin_tx_order,priority:3"`
	FinanceTransactionLedgerID uuid.UUID  `json:"finance_transaction_ledger_id"         gorm:"column:finance_transaction_ledger_id;type:uuid;not null;index:idx_fin_tx_order,priority:1;constraint:OnDelete:RESTRICT"`
	FinanceTransactionDate     time.Time  `json:"finance_transaction_date"              gorm:"column:finance_transaction_date;type:date;not null;index:idx_fin_tx_order,priority:2"`
	FinanceTransactionType     string     `json:"finance_transaction_type"              gorm:"column:finance_transaction_type;type:varchar(10);not null;check:finance_transaction_type IN ('income','expense')"`
	FinanceTransactionAmount   int64      `json:"finance_transaction_amount"            gorm:"column:finance_transaction_amount;type:bigint;not null;check:finance_transaction_amount > 0"`
	FinanceTransactionBalance  int64      `json:"finance_transaction_remaining_balance" gorm:"column:finance_transaction_remaining_balance;type:bigint;not null"`
	FinanceTransactionNote     *string    `json:"finance_transaction_note,omitempty"    gorm:"column:finance_transaction_note;type:text"`
	FinanceTransactionRecordBy uuid.UUID  `json:"finance_transaction_recorded_by"       gorm:"column:finance_transaction_recorded_by;type:uuid;not null"`
	FinanceTransactionProof    *string    `json:"finance_transaction_proof_image,omitempty" gorm:"column:finance_transaction_proof_image;type:text"`
	FinanceTransactionEditedBy *uuid.UUID `json:"finance_transaction_edited_by,omitempty"   gorm:"column:finance_transaction_edited_by;type:uuid"`

	FinanceTransactionCreatedAt time.Time `json:"finance_transaction_created_at" gorm:"column:finance_transaction_created_at;type:timestamptz;not null;autoCreateTime"`
	FinanceTransactionUpdatedAt time.Time `json:"finance_transaction_updated_at" gorm:"column:finance_transaction_updated_at;type:timestamptz;not null;autoUpdateTime"`
}

func (FinanceTransactionModel) TableName() string { return "finance_transactions" }
