package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyModel: satu Kartu Keluarga.
type FamilyModel struct {
	FamilyID      uuid.UUID `gorm:"column:family_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"family_id"`
	FamilyNoKK    string    `gorm:"column:family_no_kk;type:varchar(16);not null;uniqueIndex:uq_family_no_kk,where:family_deleted_at IS NULL" json:"family_no_kk"`
	FamilyHeadNIK string    `gorm:"column:family_head_nik;type:varchar(16);not null;index" json:"family_head_nik"`
	FamilyAddress string    `gorm:"column:family_address;type:text;not null" json:"family_address"`
	FamilyRT      *string   `gorm:"column:family_rt;type:varchar(3)" json:"family_rt,omitempty"`
	FamilyRW      *string   `gorm:"column:family_rw;type:varchar(3)" json:"family_rw,omitempty"`

	Members []CitizenModel `gorm:"foreignKey:CitizenFamilyID;references:FamilyID" json:"members,omitempty"`

	FamilyCreatedAt time.Time      `gorm:"column:family_created_at;autoCreateTime" json:"family_created_at"`
	FamilyUpdatedAt time.Time      `gorm:"column:family_updated_at;autoUpdateTime" json:"family_updated_at"`
	FamilyDeletedAt gorm.DeletedAt `gorm:"column:family_deleted_at;index" json:"family_deleted_at,omitempty"`
}

func (FamilyModel) TableName() string { return "families" }
