package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "desaku_backend/internals/features/users/auth/model"
)

/* ====================== USER ====================== */

func FindUserByEmailOrUsername(ctx context.Context, db *gorm.DB, identifier string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) OR user_name = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *authModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.WithContext(ctx).Model(&authModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hash).Error
}

/* ====================== BLACKLIST ====================== */

// BlacklistToken idempotent: token yang sama cukup satu baris.
func BlacklistToken(ctx context.Context, db *gorm.DB, token string, expiredAt time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&authModel.TokenBlacklistModel{Token: token, ExpiredAt: expiredAt}).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var row authModel.TokenBlacklistModel
	err := db.WithContext(ctx).Select("id").Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// PurgeBlacklist menghapus permanen token yang sudah kedaluwarsa sebelum `before`.
func PurgeBlacklist(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).Unscoped().
		Where("expired_at < ?", before).
		Delete(&authModel.TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}
