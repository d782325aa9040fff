package model

import (
	"time"

	"github.com/google/uuid"
)

// Ejaan "on_proccess" mengikuti data yang sudah berjalan.
const (
	ApplicationPending    = "pending"
	ApplicationOnProccess = "on_proccess"
	ApplicationRejected   = "rejected"
	ApplicationCompleted  = "completed"
)

// ApplicationDocumentModel: pengajuan surat. NIK pemohon bukan FK,
// warga boleh belum terdaftar di data kependudukan.
type ApplicationDocumentModel struct {
	ApplicationDocumentID               uuid.UUID  `gorm:"column:application_document_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"application_document_id"`
	ApplicationDocumentMasterDocumentID uuid.UUID  `gorm:"column:application_document_master_document_id;type:uuid;not null;index" json:"application_document_master_document_id"`
	ApplicationDocumentApplicantNIK     string     `gorm:"column:application_document_applicant_nik;type:varchar(16);not null;index" json:"application_document_applicant_nik"`
	ApplicationDocumentApplicantName    string     `gorm:"column:application_document_applicant_name;type:varchar(150);not null" json:"application_document_applicant_name"`
	ApplicationDocumentApplicantEmail   *string    `gorm:"column:application_document_applicant_email;type:varchar(255)" json:"application_document_applicant_email,omitempty"`
	ApplicationDocumentStatus           string     `gorm:"column:application_document_status;type:varchar(20);not null;default:'pending';index;check:application_document_status IN ('pending','on_proccess','rejected','completed')" json:"application_document_status"`
	ApplicationDocumentReason           string     `gorm:"column:application_document_reason;type:text;not null" json:"application_document_reason"`
	ApplicationDocumentCitizenNote      *string    `gorm:"column:application_document_citizen_note;type:text" json:"application_document_citizen_note,omitempty"`
	ApplicationDocumentAdminNote        *string    `gorm:"column:application_document_admin_note;type:text" json:"application_document_admin_note,omitempty"`
	ApplicationDocumentFile             *string    `gorm:"column:application_document_file;type:text" json:"application_document_file,omitempty"`
	ApplicationDocumentSubmittedBy      *uuid.UUID `gorm:"column:application_document_submitted_by;type:uuid;index" json:"application_document_submitted_by,omitempty"`
	ApplicationDocumentProcessedBy      *uuid.UUID `gorm:"column:application_document_processed_by;type:uuid" json:"application_document_processed_by,omitempty"`
	ApplicationDocumentProcessedAt      *time.Time `gorm:"column:application_document_processed_at;type:timestamptz" json:"application_document_processed_at,omitempty"`
	ApplicationDocumentFinishedAt       *time.Time `gorm:"column:application_document_finished_at;type:timestamptz" json:"application_document_finished_at,omitempty"`

	ApplicationDocumentCreatedAt time.Time `gorm:"column:application_document_created_at;autoCreateTime" json:"application_document_created_at"`
	ApplicationDocumentUpdatedAt time.Time `gorm:"column:application_document_updated_at;autoUpdateTime" json:"application_document_updated_at"`
}

func (ApplicationDocumentModel) TableName() string { return "application_documents" }

// CanTransition: pending → on_proccess | rejected, on_proccess → completed | rejected.
func CanTransition(from, to string) bool {
	switch from {
	case ApplicationPending:
		return to == ApplicationOnProccess || to == ApplicationRejected
	case ApplicationOnProccess:
		return to == ApplicationCompleted || to == ApplicationRejected
	}
	return false
}

func IsTerminal(status string) bool {
	return status == ApplicationRejected || status == ApplicationCompleted
}
