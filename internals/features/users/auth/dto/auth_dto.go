package dto

import (
	"time"

	authModel "desaku_backend/internals/features/users/auth/model"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	UserName   string  `json:"user_name" validate:"required,min=3,max=50"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	CitizenNIK *string `json:"citizen_nik" validate:"omitempty,nik"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	UserName   string    `json:"user_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CitizenNIK *string   `json:"citizen_nik,omitempty"`
	IsActive   bool      `json:"is_active"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

func ToUserResponse(u authModel.UserModel) UserResponse {
	return UserResponse{
		ID:         u.ID,
		UserName:   u.UserName,
		Email:      u.Email,
		Role:       u.Role,
		CitizenNIK: u.CitizenNIK,
		IsActive:   u.IsActive,
	}
}
