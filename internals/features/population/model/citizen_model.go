package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type CitizenModel struct {
	CitizenID         uuid.UUID  `gorm:"column:citizen_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"citizen_id"`
	CitizenNIK        string     `gorm:"column:citizen_nik;type:varchar(16);not null;uniqueIndex:uq_citizen_nik,where:citizen_deleted_at IS NULL" json:"citizen_nik"`
	CitizenName       string     `gorm:"column:citizen_name;type:varchar(150);not null;index" json:"citizen_name"`
	CitizenGender     string     `gorm:"column:citizen_gender;type:varchar(6);not null;check:citizen_gender IN ('male','female')" json:"citizen_gender"`
	CitizenBirthPlace string     `gorm:"column:citizen_birth_place;type:varchar(100)" json:"citizen_birth_place"`
	CitizenBirthDate  *time.Time `gorm:"column:citizen_birth_date;type:date" json:"citizen_birth_date,omitempty"`
	CitizenAddress    string     `gorm:"column:citizen_address;type:text" json:"citizen_address"`
	CitizenEmail      *string    `gorm:"column:citizen_email;type:varchar(160)" json:"citizen_email,omitempty"`
	CitizenPhone      *string    `gorm:"column:citizen_phone;type:varchar(20)" json:"citizen_phone,omitempty"`
	CitizenReligion   *string    `gorm:"column:citizen_religion;type:varchar(30)" json:"citizen_religion,omitempty"`
	CitizenOccupation *string    `gorm:"column:citizen_occupation;type:varchar(100)" json:"citizen_occupation,omitempty"`
	CitizenFamilyID   *uuid.UUID `gorm:"column:citizen_family_id;type:uuid;index" json:"citizen_family_id,omitempty"`

	CitizenCreatedAt time.Time      `gorm:"column:citizen_created_at;autoCreateTime" json:"citizen_created_at"`
	CitizenUpdatedAt time.Time      `gorm:"column:citizen_updated_at;autoUpdateTime" json:"citizen_updated_at"`
	CitizenDeletedAt gorm.DeletedAt `gorm:"column:citizen_deleted_at;index" json:"citizen_deleted_at,omitempty"`
}

func (CitizenModel) TableName() string { return "citizens" }
