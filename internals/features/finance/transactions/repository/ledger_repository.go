package repository

import (
	"context"
	"errors"

	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx: operasi ledger di dalam satu transaksi DB. LockLedger harus dipanggil pertama;
// kunci baris ledger menserialkan semua mutasi ledger tersebut.
type Tx interface {
	LockLedger(ledgerID uuid.UUID) (model.FinanceLedgerModel, error)
	ListOrdered(ledgerID uuid.UUID) ([]model.FinanceTransactionModel, error)
	FindTransaction(id int64) (model.FinanceTransactionModel, error)
	Insert(t *model.FinanceTransactionModel) error
	Save(t *model.FinanceTransactionModel) error
	SetBalances(balances map[int64]int64) error
	Delete(id int64) error
	// BumpVersion: version from → from+1 dan simpan cache saldo; ConcurrencyConflict bila version sudah bergeser.
	BumpVersion(ledgerID uuid.UUID, from int64, balance int64) error
}

type Repository interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	FindTransaction(ctx context.Context, id int64) (model.FinanceTransactionModel, error)
	ListOrdered(ctx context.Context, ledgerID uuid.UUID) ([]model.FinanceTransactionModel, error)
	LastBalance(ctx context.Context, ledgerID uuid.UUID) (int64, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return r.DB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
}

func (r *GormRepository) FindTransaction(ctx context.Context, id int64) (model.FinanceTransactionModel, error) {
	return findTransaction(r.DB.WithContext(ctx), id)
}

func (r *GormRepository) ListOrdered(ctx context.Context, ledgerID uuid.UUID) ([]model.FinanceTransactionModel, error) {
	return listOrdered(r.DB.WithContext(ctx), ledgerID)
}

func (r *GormRepository) LastBalance(ctx context.Context, ledgerID uuid.UUID) (int64, error) {
	var t model.FinanceTransactionModel
	err := r.DB.WithContext(ctx).
		Select("finance_transaction_remaining_balance").
		Where("finance_transaction_ledger_id = ?", ledgerID).
		Order("finance_transaction_date DESC, finance_transaction_id DESC").
		Limit(1).
		Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return t.FinanceTransactionBalance, err
}

func findTransaction(db *gorm.DB, id int64) (model.FinanceTransactionModel, error) {
	var t model.FinanceTransactionModel
	if err := db.First(&t, "finance_transaction_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return t, apperror.NotFound("Transaksi")
		}
		return t, err
	}
	return t, nil
}

func listOrdered(db *gorm.DB, ledgerID uuid.UUID) ([]model.FinanceTransactionModel, error) {
	var rows []model.FinanceTransactionModel
	err := db.
		Where("finance_transaction_ledger_id = ?", ledgerID).
		Order("finance_transaction_date ASC, finance_transaction_id ASC").
		Find(&rows).Error
	return rows, err
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LockLedger(ledgerID uuid.UUID) (model.FinanceLedgerModel, error) {
	var l model.FinanceLedgerModel
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "finance_ledger_id = ?", ledgerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return l, apperror.NotFound("Buku kas")
	}
	return l, err
}

func (t *gormTx) ListOrdered(ledgerID uuid.UUID) ([]model.FinanceTransactionModel, error) {
	return listOrdered(t.db, ledgerID)
}

func (t *gormTx) FindTransaction(id int64) (model.FinanceTransactionModel, error) {
	return findTransaction(t.db, id)
}

func (t *gormTx) Insert(m *model.FinanceTransactionModel) error {
	return t.db.Create(m).Error
}

func (t *gormTx) Save(m *model.FinanceTransactionModel) error {
	return t.db.Model(&model.FinanceTransactionModel{}).
		Where("finance_transaction_id = ?", m.FinanceTransactionID).
		Updates(map[string]any{
			"finance_transaction_date":              m.FinanceTransactionDate,
			"finance_transaction_type":              m.FinanceTransactionType,
			"finance_transaction_amount":            m.FinanceTransactionAmount,
			"finance_transaction_remaining_balance": m.FinanceTransactionBalance,
			"finance_transaction_note":              m.FinanceTransactionNote,
			"finance_transaction_proof_image":       m.FinanceTransactionProof,
			"finance_transaction_edited_by":         m.FinanceTransactionEditedBy,
		}).Error
}

func (t *gormTx) SetBalances(balances map[int64]int64) error {
	for id, bal := range balances {
		if err := t.db.Model(&model.FinanceTransactionModel{}).
			Where("finance_transaction_id = ?", id).
			Update("finance_transaction_remaining_balance", bal).Error; err != nil {
			return err
		}
	}
	return nil
}

func (t *gormTx) Delete(id int64) error {
	res := t.db.Delete(&model.FinanceTransactionModel{}, "finance_transaction_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Transaksi")
	}
	return nil
}

func (t *gormTx) BumpVersion(ledgerID uuid.UUID, from int64, balance int64) error {
	res := t.db.Model(&model.FinanceLedgerModel{}).
		Where("finance_ledger_id = ? AND finance_ledger_version = ?", ledgerID, from).
		Updates(map[string]any{
			"finance_ledger_version": from + 1,
			"finance_ledger_balance": balance,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("buku kas berubah saat diproses, silakan ulangi")
	}
	return nil
}
