package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"desaku_backend/internals/constants"
	"desaku_backend/internals/features/users/auth/dto"
	authModel "desaku_backend/internals/features/users/auth/model"
	authRepo "desaku_backend/internals/features/users/auth/repository"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{DB: db, Secret: secret, TTL: ttl, Now: time.Now}
}

// Register hanya membuat akun warga; akun admin/operator dibuat lewat seed atau admin.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*authModel.UserModel, error) {
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &authModel.UserModel{
		UserName:   strings.TrimSpace(req.UserName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hash,
		Role:       constants.RoleCitizen,
		CitizenNIK: req.CitizenNIK,
		IsActive:   true,
	}
	if err := authRepo.CreateUser(ctx, s.DB, u); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, apperror.ValidationField("email", "Email sudah terdaftar")
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := helper.ValidateStruct(req); err != nil {
		return dto.LoginResponse{}, err
	}
	u, err := authRepo.FindUserByEmailOrUsername(ctx, s.DB, strings.TrimSpace(req.Identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, fiber.NewError(fiber.StatusUnauthorized, "Identifier atau password salah")
		}
		return dto.LoginResponse{}, err
	}
	if !u.IsActive {
		return dto.LoginResponse{}, fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin desa.")
	}
	if err := CheckPasswordHash(u.Password, req.Password); err != nil {
		return dto.LoginResponse{}, fiber.NewError(fiber.StatusUnauthorized, "Identifier atau password salah")
	}

	token, exp, err := IssueAccessToken(s.Secret, *u, s.Now(), s.TTL)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{AccessToken: token, ExpiresAt: exp, User: dto.ToUserResponse(*u)}, nil
}

// Logout mem-blacklist token sampai exp-nya lewat. Token rusak tetap di-blacklist singkat.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	expiredAt := s.Now().Add(2 * time.Minute)
	if claims, err := ParseAccessToken(s.Secret, raw, s.Now()); err == nil {
		expiredAt = claims.ExpiresAt.Add(time.Minute)
	}
	if err := authRepo.BlacklistToken(ctx, s.DB, raw, expiredAt); err != nil {
		zap.L().Warn("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (dto.UserResponse, error) {
	u, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, apperror.NotFound("User")
		}
		return dto.UserResponse{}, err
	}
	return dto.ToUserResponse(*u), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	if err := helper.ValidateStruct(req); err != nil {
		return err
	}
	u, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	if err := CheckPasswordHash(u.Password, req.CurrentPassword); err != nil {
		return apperror.ValidationField("current_password", "Password lama salah")
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return authRepo.UpdateUserPassword(ctx, s.DB, userID, hash)
}
