package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Jenis program menentukan siapa penerimanya.
const (
	ProgramIndividual = "individual" // per warga (citizen_id)
	ProgramHousehold  = "household"  // per KK (family_id)
	ProgramPublic     = "public"     // fasilitas umum, tanpa penerima spesifik
)

const (
	RecipientCollected    = "collected"
	RecipientNotCollected = "not_collected"
)

type SocialAidProgramModel struct {
	SocialAidProgramID          uuid.UUID `gorm:"column:social_aid_program_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"social_aid_program_id"`
	SocialAidProgramName        string    `gorm:"column:social_aid_program_name;type:varchar(150);not null" json:"social_aid_program_name"`
	SocialAidProgramType        string    `gorm:"column:social_aid_program_type;type:varchar(20);not null;check:social_aid_program_type IN ('individual','household','public')" json:"social_aid_program_type"`
	SocialAidProgramPeriod      string    `gorm:"column:social_aid_program_period;type:varchar(50);not null" json:"social_aid_program_period"`
	SocialAidProgramDescription *string   `gorm:"column:social_aid_program_description;type:text" json:"social_aid_program_description,omitempty"`

	SocialAidProgramCreatedAt time.Time      `gorm:"column:social_aid_program_created_at;autoCreateTime" json:"social_aid_program_created_at"`
	SocialAidProgramUpdatedAt time.Time      `gorm:"column:social_aid_program_updated_at;autoUpdateTime" json:"social_aid_program_updated_at"`
	SocialAidProgramDeletedAt gorm.DeletedAt `gorm:"column:social_aid_program_deleted_at;index" json:"social_aid_program_deleted_at,omitempty"`
}

func (SocialAidProgramModel) TableName() string { return "social_aid_programs" }

// SocialAidRecipientModel: collected_at terisi hanya saat status collected.
type SocialAidRecipientModel struct {
	SocialAidRecipientID          uuid.UUID  `gorm:"column:social_aid_recipient_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"social_aid_recipient_id"`
	SocialAidRecipientProgramID   uuid.UUID  `gorm:"column:social_aid_recipient_program_id;type:uuid;not null;index" json:"social_aid_recipient_program_id"`
	SocialAidRecipientCitizenID   *uuid.UUID `gorm:"column:social_aid_recipient_citizen_id;type:uuid;index" json:"social_aid_recipient_citizen_id,omitempty"`
	SocialAidRecipientFamilyID    *uuid.UUID `gorm:"column:social_aid_recipient_family_id;type:uuid;index" json:"social_aid_recipient_family_id,omitempty"`
	SocialAidRecipientStatus      string     `gorm:"column:social_aid_recipient_status;type:varchar(20);not null;default:'not_collected';check:social_aid_recipient_status IN ('collected','not_collected')" json:"social_aid_recipient_status"`
	SocialAidRecipientNote        *string    `gorm:"column:social_aid_recipient_note;type:text" json:"social_aid_recipient_note,omitempty"`
	SocialAidRecipientPerformedBy *uuid.UUID `gorm:"column:social_aid_recipient_performed_by;type:uuid" json:"social_aid_recipient_performed_by,omitempty"`
	SocialAidRecipientCollectedAt *time.Time `gorm:"column:social_aid_recipient_collected_at;type:timestamptz" json:"social_aid_recipient_collected_at,omitempty"`

	SocialAidRecipientCreatedAt time.Time `gorm:"column:social_aid_recipient_created_at;autoCreateTime" json:"social_aid_recipient_created_at"`
	SocialAidRecipientUpdatedAt time.Time `gorm:"column:social_aid_recipient_updated_at;autoUpdateTime" json:"social_aid_recipient_updated_at"`
}

func (SocialAidRecipientModel) TableName() string { return "social_aid_recipients" }

func IsProgramType(t string) bool {
	return t == ProgramIndividual || t == ProgramHousehold || t == ProgramPublic
}
