package model

import (
	"time"

	"github.com/google/uuid"
)

// FinanceLedgerModel: satu buku kas. Balance adalah cache saldo transaksi terakhir,
// Version naik di setiap mutasi.
type FinanceLedgerModel struct {
	FinanceLedgerID      uuid.UUID `json:"finance_ledger_id"      gorm:"column:finance_ledger_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FinanceLedgerName    string    `json:"finance_ledger_name"    gorm:"column:finance_ledger_name;type:varchar(120);not null;uniqueIndex"`
	FinanceLedgerBalance int64     `json:"finance_ledger_balance" gorm:"column:finance_ledger_balance;type:bigint;not null;default:0"`
	FinanceLedgerVersion int64     `json:"finance_ledger_version" gorm:"column:finance_ledger_version;type:bigint;not null;default:0"`

	FinanceLedgerCreatedAt time.Time `json:"finance_ledger_created_at" gorm:"column:finance_ledger_created_at;type:timestamptz;not null;autoCreateTime"`
	FinanceLedgerUpdatedAt time.Time `json:"finance_ledger_updated_at" gorm:"column:finance_ledger_updated_at;type:timestamptz;not null;autoUpdateTime"`
}

func (FinanceLedgerModel) TableName() string { return "finance_ledgers" }
