package dto

import (
	"strings"

	"desaku_backend/internals/constants"
	authModel "desaku_backend/internals/features/users/auth/model"
)

// CreateUserRequest: admin membuat akun perangkat desa atau warga.
type CreateUserRequest struct {
	UserName   string  `json:"user_name" validate:"required,min=3,max=50"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	Role       string  `json:"role" validate:"required,oneof=admin operator citizen"`
	CitizenNIK *string `json:"citizen_nik" validate:"omitempty,nik"`
}

func (r *CreateUserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.CitizenNIK = trimNIK(r.CitizenNIK)
}

// ToModel; hash password disiapkan pemanggil.
func (r CreateUserRequest) ToModel(hash string) authModel.UserModel {
	return authModel.UserModel{
		UserName:   r.UserName,
		Email:      r.Email,
		Password:   hash,
		Role:       r.Role,
		CitizenNIK: r.CitizenNIK,
		IsActive:   true,
	}
}

// UpdateUserRequest: semua opsional. citizen_nik "" melepas tautan NIK.
type UpdateUserRequest struct {
	UserName   *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin operator citizen"`
	IsActive   *bool   `json:"is_active"`
	CitizenNIK *string `json:"citizen_nik"`
}

// Apply mengembalikan kolom yang berubah, untuk Select(...).Updates.
func (r UpdateUserRequest) Apply(u *authModel.UserModel) []string {
	cols := make([]string, 0, 4)
	if r.UserName != nil {
		u.UserName = strings.TrimSpace(*r.UserName)
		cols = append(cols, "user_name")
	}
	if r.Role != nil {
		if role := strings.ToLower(strings.TrimSpace(*r.Role)); constants.IsValidRole(role) {
			u.Role = role
			cols = append(cols, "role")
		}
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
		cols = append(cols, "is_active")
	}
	if r.CitizenNIK != nil {
		u.CitizenNIK = trimNIK(r.CitizenNIK)
		cols = append(cols, "citizen_nik")
	}
	return cols
}

func trimNIK(p *string) *string {
	if p == nil {
		return nil
	}
	n := strings.TrimSpace(*p)
	if n == "" {
		return nil
	}
	return &n
}
