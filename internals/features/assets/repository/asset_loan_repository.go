package repository

import (
	"context"
	"errors"
	"time"

	"desaku_backend/internals/features/assets/model"
	"desaku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx: operasi peminjaman di dalam satu transaksi DB.
type Tx interface {
	LockLoan(id uuid.UUID) (model.AssetLoanModel, error)
	LockAsset(id uuid.UUID) (model.AssetModel, error)
	// ActiveLoanExists: ada pinjaman waiting_approval/on_loan untuk aset, selain exclude.
	ActiveLoanExists(assetID uuid.UUID, statuses []string, exclude uuid.UUID) (bool, error)
	CreateLoan(m *model.AssetLoanModel) error
	// UpdateLoan hanya berlaku bila status masih `from`; selain itu ConcurrencyConflict.
	UpdateLoan(id uuid.UUID, from string, fields map[string]any) error
	SetAssetStatus(id uuid.UUID, from, to string) error
}

type Contact struct {
	Name  string
	Email string
}

type Repository interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	FindLoan(ctx context.Context, id uuid.UUID) (model.AssetLoanModel, error)
	FindAsset(ctx context.Context, id uuid.UUID) (model.AssetModel, error)
	// Borrower: nama & email warga peminjam (email boleh kosong).
	Borrower(ctx context.Context, citizenID uuid.UUID) (Contact, error)
	// OverdueLoans: on_loan dengan expected_return_date < today dan belum diingatkan hari ini.
	OverdueLoans(ctx context.Context, today time.Time) ([]model.AssetLoanModel, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
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

func (r *GormRepository) FindLoan(ctx context.Context, id uuid.UUID) (model.AssetLoanModel, error) {
	var m model.AssetLoanModel
	err := r.DB.WithContext(ctx).First(&m, "asset_loan_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Peminjaman")
	}
	return m, err
}

func (r *GormRepository) FindAsset(ctx context.Context, id uuid.UUID) (model.AssetModel, error) {
	var m model.AssetModel
	err := r.DB.WithContext(ctx).First(&m, "asset_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Aset")
	}
	return m, err
}

func (r *GormRepository) Borrower(ctx context.Context, citizenID uuid.UUID) (Contact, error) {
	var row struct {
		CitizenName  string
		CitizenEmail *string
	}
	err := r.DB.WithContext(ctx).
		Table("citizens").
		Select("citizen_name, citizen_email").
		Where("citizen_id = ? AND citizen_deleted_at IS NULL", citizenID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Contact{}, apperror.NotFound("Warga")
	}
	if err != nil {
		return Contact{}, err
	}
	c := Contact{Name: row.CitizenName}
	if row.CitizenEmail != nil {
		c.Email = *row.CitizenEmail
	}
	return c, nil
}

func (r *GormRepository) OverdueLoans(ctx context.Context, today time.Time) ([]model.AssetLoanModel, error) {
	var rows []model.AssetLoanModel
	err := r.DB.WithContext(ctx).
		Where("asset_loan_status = ?", model.LoanOnLoan).
		Where("asset_loan_expected_return_date < ?", today).
		Where("asset_loan_last_reminded_at IS NULL OR asset_loan_last_reminded_at < ?", today).
		Order("asset_loan_expected_return_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.AssetLoanModel{}).
		Where("asset_loan_id = ?", id).
		Update("asset_loan_last_reminded_at", at).Error
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LockLoan(id uuid.UUID) (model.AssetLoanModel, error) {
	var m model.AssetLoanModel
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "asset_loan_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Peminjaman")
	}
	return m, err
}

func (t *gormTx) LockAsset(id uuid.UUID) (model.AssetModel, error) {
	var m model.AssetModel
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "asset_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Aset")
	}
	return m, err
}

func (t *gormTx) ActiveLoanExists(assetID uuid.UUID, statuses []string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := t.db.Model(&model.AssetLoanModel{}).
		Where("asset_loan_asset_id = ? AND asset_loan_status IN ? AND asset_loan_id <> ?", assetID, statuses, exclude).
		Count(&n).Error
	return n > 0, err
}

func (t *gormTx) CreateLoan(m *model.AssetLoanModel) error {
	return t.db.Create(m).Error
}

func (t *gormTx) UpdateLoan(id uuid.UUID, from string, fields map[string]any) error {
	res := t.db.Model(&model.AssetLoanModel{}).
		Where("asset_loan_id = ? AND asset_loan_status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("status peminjaman berubah saat diproses, silakan ulangi")
	}
	return nil
}

func (t *gormTx) SetAssetStatus(id uuid.UUID, from, to string) error {
	res := t.db.Model(&model.AssetModel{}).
		Where("asset_id = ? AND asset_status = ?", id, from).
		Update("asset_status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("status aset berubah saat diproses, silakan ulangi")
	}
	return nil
}
