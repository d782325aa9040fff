package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel: akun portal. Role menentukan akses (admin, operator = perangkat desa, citizen = warga).
type UserModel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName   string    `gorm:"size:50;not null" json:"user_name"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Role       string    `gorm:"type:varchar(20);not null;default:'citizen'" json:"role"`
	CitizenNIK *string   `gorm:"type:varchar(16);index" json:"citizen_nik,omitempty"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}
