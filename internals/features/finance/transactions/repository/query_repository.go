package repository

import (
	"context"
	"errors"
	"time"

	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Query: baca-saja untuk daftar, laporan, dan dashboard. Tidak mengunci.

func ListLedgers(ctx context.Context, db *gorm.DB) ([]model.FinanceLedgerModel, error) {
	var out []model.FinanceLedgerModel
	err := db.WithContext(ctx).Order("finance_ledger_name ASC").Find(&out).Error
	return out, err
}

func FindLedger(ctx context.Context, db *gorm.DB, id uuid.UUID) (model.FinanceLedgerModel, error) {
	var l model.FinanceLedgerModel
	err := db.WithContext(ctx).First(&l, "finance_ledger_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return l, apperror.NotFound("Buku kas")
	}
	return l, err
}

func FindLedgerByName(ctx context.Context, db *gorm.DB, name string) (model.FinanceLedgerModel, error) {
	var l model.FinanceLedgerModel
	err := db.WithContext(ctx).First(&l, "finance_ledger_name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return l, apperror.NotFound("Buku kas")
	}
	return l, err
}

func CreateLedger(ctx context.Context, db *gorm.DB, name string) (model.FinanceLedgerModel, error) {
	l := model.FinanceLedgerModel{FinanceLedgerName: name}
	err := db.WithContext(ctx).Create(&l).Error
	return l, err
}

type TransactionFilter struct {
	LedgerID uuid.UUID
	Type     string
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
}

// ListTransactions: terbaru dulu (kebalikan urutan ledger) untuk tampilan admin.
func ListTransactions(ctx context.Context, db *gorm.DB, f TransactionFilter) ([]model.FinanceTransactionModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.FinanceTransactionModel{}).
		Where("finance_transaction_ledger_id = ?", f.LedgerID)
	if f.Type != "" {
		q = q.Where("finance_transaction_type = ?", f.Type)
	}
	if f.From != nil {
		q = q.Where("finance_transaction_date >= ?::date", dbtime.FormatDate(*f.From))
	}
	if f.To != nil {
		q = q.Where("finance_transaction_date <= ?::date", dbtime.FormatDate(*f.To))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.FinanceTransactionModel
	err := q.Order("finance_transaction_date DESC, finance_transaction_id DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&rows).Error
	return rows, total, err
}

type MonthTotal struct {
	Month int
	Type  string
	Total decimal.Decimal
}

// MonthlyTotals: SUM(amount) per bulan dan tipe dalam [from, to). Batas dikirim sebagai
// tanggal kalender agar tidak tergantung TimeZone sesi.
func MonthlyTotals(ctx context.Context, db *gorm.DB, ledgerID uuid.UUID, from, to time.Time) ([]MonthTotal, error) {
	var out []MonthTotal
	err := db.WithContext(ctx).
		Model(&model.FinanceTransactionModel{}).
		Select(`CAST(EXTRACT(MONTH FROM finance_transaction_date) AS int) AS month,
			finance_transaction_type AS type,
			COALESCE(SUM(finance_transaction_amount), 0) AS total`).
		Where("finance_transaction_ledger_id = ? AND finance_transaction_date >= ?::date AND finance_transaction_date < ?::date",
			ledgerID, dbtime.FormatDate(from), dbtime.FormatDate(to)).
		Group("month, finance_transaction_type").
		Order("month").
		Scan(&out).Error
	return out, err
}
