package user

import (
	"context"
	"errors"
	"os"
	"strings"

	"desaku_backend/internals/constants"
	"desaku_backend/internals/features/users/auth/model"
	authService "desaku_backend/internals/features/users/auth/service"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserSeed struct {
	UserName   string  `json:"user_name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	CitizenNIK *string `json:"citizen_nik"`
}

// SeedAdmin membuat akun admin pertama bila email belum terdaftar.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		zap.L().Warn("ADMIN_EMAIL / ADMIN_PASSWORD kosong, seed admin dilewati")
		return nil
	}
	_, err := seedOne(ctx, db, UserSeed{UserName: "admin", Email: email, Password: password, Role: constants.RoleAdmin})
	return err
}

// SeedUsersFromJSON: akun tambahan (perangkat desa, warga demo). Email yang sudah ada dilewati.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, filePath string) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return err
	}
	for _, in := range inputs {
		if !constants.IsValidRole(in.Role) {
			zap.L().Warn("seed user: role tidak dikenal", zap.String("email", in.Email), zap.String("role", in.Role))
			continue
		}
		if _, err := seedOne(ctx, db, in); err != nil {
			return err
		}
	}
	return nil
}

func seedOne(ctx context.Context, db *gorm.DB, in UserSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	var n int64
	if err := db.WithContext(ctx).Model(&model.UserModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		zap.L().Info("seed user: sudah ada", zap.String("email", email))
		return false, nil
	}
	hash, err := authService.HashPassword(in.Password)
	if err != nil {
		return false, err
	}
	u := model.UserModel{
		UserName:   in.UserName,
		Email:      email,
		Password:   hash,
		Role:       in.Role,
		CitizenNIK: in.CitizenNIK,
		IsActive:   true,
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return false, err
	}
	zap.L().Info("seed user", zap.String("email", email), zap.String("role", in.Role))
	return true, nil
}
