package auth

import (
	"context"
	"errors"
	"time"

	authModel "desaku_backend/internals/features/users/auth/model"
	authRepo "desaku_backend/internals/features/users/auth/repository"
	authService "desaku_backend/internals/features/users/auth/service"
	helper "desaku_backend/internals/helpers"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenGuard: pemeriksaan yang butuh DB (blacklist, status akun).
type TokenGuard interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	IsUserActive(ctx context.Context, userID uuid.UUID) (bool, error)
}

type gormGuard struct{ db *gorm.DB }

func (g gormGuard) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return authRepo.IsBlacklisted(ctx, g.db, token)
}

func (g gormGuard) IsUserActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	var u authModel.UserModel
	if err := g.db.WithContext(ctx).Select("is_active").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsActive, nil
}

func AuthMiddleware(db *gorm.DB, secret string) fiber.Handler {
	return AuthWithGuard(gormGuard{db: db}, secret)
}

// AuthWithGuard memverifikasi JWT lalu mengisi Locals user_id, userRole, user_name.
func AuthWithGuard(guard TokenGuard, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		raw := helperAuth.BearerToken(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - token tidak ada")
		}
		if secret == "" {
			zap.L().Error("JWT_SECRET kosong")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Konfigurasi server belum lengkap")
		}

		claims, err := authService.ParseAccessToken(secret, raw, time.Now())
		if err != nil {
			if errors.Is(err, authService.ErrTokenExpired) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - token kedaluwarsa")
			}
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - token tidak valid")
		}

		black, err := guard.IsBlacklisted(ctx, raw)
		if err != nil {
			zap.L().Error("cek blacklist", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}
		if black {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - token sudah logout")
		}

		active, err := guard.IsUserActive(ctx, claims.UserID)
		if err != nil {
			zap.L().Error("cek user aktif", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}
		if !active {
			return helper.JsonError(c, fiber.StatusForbidden, "Akun tidak ditemukan atau dinonaktifkan")
		}

		c.Locals(helperAuth.LocUserID, claims.UserID.String())
		c.Locals(helperAuth.LocUserRole, claims.Role)
		c.Locals(helperAuth.LocUserName, claims.UserName)
		return c.Next()
	}
}
