package repository

import (
	"context"
	"errors"

	"desaku_backend/internals/features/social_aids/model"
	"desaku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	FindProgram(ctx context.Context, id uuid.UUID) (model.SocialAidProgramModel, error)
	FindRecipient(ctx context.Context, id uuid.UUID) (model.SocialAidRecipientModel, error)
	// TargetExists: citizen/family yang dirujuk ada dan belum dihapus.
	TargetExists(ctx context.Context, citizenID, familyID *uuid.UUID) (bool, error)
	// Registered: target sudah terdaftar di program yang sama.
	Registered(ctx context.Context, programID uuid.UUID, citizenID, familyID *uuid.UUID) (bool, error)
	CreateRecipient(ctx context.Context, m *model.SocialAidRecipientModel) error
	// SaveStatus menulis status + kolom turunannya dengan kunci baris.
	SaveStatus(ctx context.Context, id uuid.UUID, fn func(r *model.SocialAidRecipientModel) error) (model.SocialAidRecipientModel, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) FindProgram(ctx context.Context, id uuid.UUID) (model.SocialAidProgramModel, error) {
	var m model.SocialAidProgramModel
	err := r.DB.WithContext(ctx).First(&m, "social_aid_program_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Program bantuan")
	}
	return m, err
}

func (r *GormRepository) FindRecipient(ctx context.Context, id uuid.UUID) (model.SocialAidRecipientModel, error) {
	var m model.SocialAidRecipientModel
	err := r.DB.WithContext(ctx).First(&m, "social_aid_recipient_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Penerima bantuan")
	}
	return m, err
}

func (r *GormRepository) TargetExists(ctx context.Context, citizenID, familyID *uuid.UUID) (bool, error) {
	var n int64
	var err error
	switch {
	case citizenID != nil:
		err = r.DB.WithContext(ctx).Table("citizens").
			Where("citizen_id = ? AND citizen_deleted_at IS NULL", *citizenID).Count(&n).Error
	case familyID != nil:
		err = r.DB.WithContext(ctx).Table("families").
			Where("family_id = ? AND family_deleted_at IS NULL", *familyID).Count(&n).Error
	default:
		return true, nil
	}
	return n > 0, err
}

func (r *GormRepository) Registered(ctx context.Context, programID uuid.UUID, citizenID, familyID *uuid.UUID) (bool, error) {
	q := r.DB.WithContext(ctx).Model(&model.SocialAidRecipientModel{}).
		Where("social_aid_recipient_program_id = ?", programID)
	switch {
	case citizenID != nil:
		q = q.Where("social_aid_recipient_citizen_id = ?", *citizenID)
	case familyID != nil:
		q = q.Where("social_aid_recipient_family_id = ?", *familyID)
	default:
		return false, nil
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *GormRepository) CreateRecipient(ctx context.Context, m *model.SocialAidRecipientModel) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepository) SaveStatus(ctx context.Context, id uuid.UUID, fn func(r *model.SocialAidRecipientModel) error) (model.SocialAidRecipientModel, error) {
	var m model.SocialAidRecipientModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "social_aid_recipient_id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Penerima bantuan")
		}
		if err != nil {
			return err
		}
		if err := fn(&m); err != nil {
			return err
		}
		return tx.Model(&m).Select(
			"social_aid_recipient_status",
			"social_aid_recipient_note",
			"social_aid_recipient_performed_by",
			"social_aid_recipient_collected_at",
		).Updates(&m).Error
	})
	return m, err
}
