package repository

import (
	"context"
	"errors"
	"strings"

	"desaku_backend/internals/features/population/model"
	"desaku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func FindCitizen(ctx context.Context, db *gorm.DB, id uuid.UUID) (model.CitizenModel, error) {
	var m model.CitizenModel
	err := db.WithContext(ctx).First(&m, "citizen_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Warga")
	}
	return m, err
}

func FindCitizenByNIK(ctx context.Context, db *gorm.DB, nik string) (model.CitizenModel, error) {
	var m model.CitizenModel
	err := db.WithContext(ctx).First(&m, "citizen_nik = ?", strings.TrimSpace(nik)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Warga")
	}
	return m, err
}

func FindFamily(ctx context.Context, db *gorm.DB, id uuid.UUID, withMembers bool) (model.FamilyModel, error) {
	var m model.FamilyModel
	q := db.WithContext(ctx)
	if withMembers {
		q = q.Preload("Members", func(tx *gorm.DB) *gorm.DB { return tx.Order("citizen_name ASC") })
	}
	err := q.First(&m, "family_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Keluarga")
	}
	return m, err
}

func CountCitizens(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&model.CitizenModel{}).Count(&n).Error
	return n, err
}

func CountFamilies(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&model.FamilyModel{}).Count(&n).Error
	return n, err
}
