package repository

import (
	"context"
	"errors"

	"desaku_backend/internals/features/documents/model"
	"desaku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx: operasi pengajuan surat di dalam satu transaksi DB.
type Tx interface {
	LockApplication(id uuid.UUID) (model.ApplicationDocumentModel, error)
	// UpdateApplication hanya berlaku bila status masih `from`.
	UpdateApplication(id uuid.UUID, from string, fields map[string]any) error
}

type Repository interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	FindMaster(ctx context.Context, id uuid.UUID) (model.MasterDocumentModel, error)
	FindApplication(ctx context.Context, id uuid.UUID) (model.ApplicationDocumentModel, error)
	CreateApplication(ctx context.Context, m *model.ApplicationDocumentModel) error
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

func (r *GormRepository) FindMaster(ctx context.Context, id uuid.UUID) (model.MasterDocumentModel, error) {
	var m model.MasterDocumentModel
	err := r.DB.WithContext(ctx).First(&m, "master_document_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Jenis dokumen")
	}
	return m, err
}

func (r *GormRepository) FindApplication(ctx context.Context, id uuid.UUID) (model.ApplicationDocumentModel, error) {
	var m model.ApplicationDocumentModel
	err := r.DB.WithContext(ctx).First(&m, "application_document_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Pengajuan dokumen")
	}
	return m, err
}

func (r *GormRepository) CreateApplication(ctx context.Context, m *model.ApplicationDocumentModel) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

// ApplicationFilter untuk daftar pengajuan (admin & warga).
type ApplicationFilter struct {
	Status           string
	NIK              string
	MasterDocumentID *uuid.UUID
	Offset, Limit    int
}

func (r *GormRepository) ListApplications(ctx context.Context, f ApplicationFilter) ([]model.ApplicationDocumentModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.ApplicationDocumentModel{})
	if f.Status != "" {
		q = q.Where("application_document_status = ?", f.Status)
	}
	if f.NIK != "" {
		q = q.Where("application_document_applicant_nik = ?", f.NIK)
	}
	if f.MasterDocumentID != nil {
		q = q.Where("application_document_master_document_id = ?", *f.MasterDocumentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ApplicationDocumentModel
	err := q.Order("application_document_created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&rows).Error
	return rows, total, err
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LockApplication(id uuid.UUID) (model.ApplicationDocumentModel, error) {
	var m model.ApplicationDocumentModel
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "application_document_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Pengajuan dokumen")
	}
	return m, err
}

func (t *gormTx) UpdateApplication(id uuid.UUID, from string, fields map[string]any) error {
	res := t.db.Model(&model.ApplicationDocumentModel{}).
		Where("application_document_id = ? AND application_document_status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("status pengajuan berubah saat diproses, silakan ulangi")
	}
	return nil
}
