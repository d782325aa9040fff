package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MasterDocumentModel: jenis surat yang bisa diajukan warga (SKTM, domisili, pengantar, dst).
type MasterDocumentModel struct {
	MasterDocumentID           uuid.UUID      `gorm:"column:master_document_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"master_document_id"`
	MasterDocumentName         string         `gorm:"column:master_document_name;type:varchar(150);not null" json:"master_document_name"`
	MasterDocumentSlug         string         `gorm:"column:master_document_slug;type:varchar(160);not null;uniqueIndex:uq_master_document_slug,where:master_document_deleted_at IS NULL" json:"master_document_slug"`
	MasterDocumentDescription  *string        `gorm:"column:master_document_description;type:text" json:"master_document_description,omitempty"`
	MasterDocumentRequirements pq.StringArray `gorm:"column:master_document_requirements;type:text[];not null;default:'{}'" json:"master_document_requirements"`
	MasterDocumentIsActive     bool           `gorm:"column:master_document_is_active;not null;default:true" json:"master_document_is_active"`

	MasterDocumentCreatedAt time.Time      `gorm:"column:master_document_created_at;autoCreateTime" json:"master_document_created_at"`
	MasterDocumentUpdatedAt time.Time      `gorm:"column:master_document_updated_at;autoUpdateTime" json:"master_document_updated_at"`
	MasterDocumentDeletedAt gorm.DeletedAt `gorm:"column:master_document_deleted_at;index" json:"master_document_deleted_at,omitempty"`
}

func (MasterDocumentModel) TableName() string { return "master_documents" }
