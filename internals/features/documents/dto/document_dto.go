package dto

import (
	"strings"

	"desaku_backend/internals/features/documents/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

/* ===================== Master document ===================== */

type CreateMasterDocumentRequest struct {
	Name         string   `json:"master_document_name"         validate:"required,min=3,max=150"`
	Description  *string  `json:"master_document_description"  validate:"omitempty,max=2000"`
	Requirements []string `json:"master_document_requirements" validate:"omitempty,max=30,dive,max=200"`
	IsActive     *bool    `json:"master_document_is_active"`
}

func (r CreateMasterDocumentRequest) ToModel() model.MasterDocumentModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.MasterDocumentModel{
		MasterDocumentName:         strings.TrimSpace(r.Name),
		MasterDocumentDescription:  r.Description,
		MasterDocumentRequirements: CleanRequirements(r.Requirements),
		MasterDocumentIsActive:     active,
	}
}

type UpdateMasterDocumentRequest struct {
	Name         *string   `json:"master_document_name"         validate:"omitempty,min=3,max=150"`
	Description  *string   `json:"master_document_description"  validate:"omitempty,max=2000"`
	Requirements *[]string `json:"master_document_requirements" validate:"omitempty,max=30,dive,max=200"`
	IsActive     *bool     `json:"master_document_is_active"`
}

// Apply mengembalikan true bila nama berubah (slug perlu dibuat ulang).
func (r UpdateMasterDocumentRequest) Apply(m *model.MasterDocumentModel) bool {
	renamed := false
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		renamed = n != m.MasterDocumentName
		m.MasterDocumentName = n
	}
	if r.Description != nil {
		m.MasterDocumentDescription = r.Description
	}
	if r.Requirements != nil {
		m.MasterDocumentRequirements = CleanRequirements(*r.Requirements)
	}
	if r.IsActive != nil {
		m.MasterDocumentIsActive = *r.IsActive
	}
	return renamed
}

// CleanRequirements: trim, buang yang kosong dan duplikat, urutan dipertahankan.
func CleanRequirements(in []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

/* ===================== Application ===================== */

// SubmitApplicationRequest: untuk akun warga, NIK boleh kosong (diambil dari akun).
type SubmitApplicationRequest struct {
	MasterDocumentID uuid.UUID `json:"application_document_master_document_id" validate:"required"`
	NIK              string    `json:"application_document_applicant_nik"       validate:"omitempty,nik"`
	Name             string    `json:"application_document_applicant_name"      validate:"omitempty,max=150"`
	Email            *string   `json:"application_document_applicant_email"     validate:"omitempty,email"`
	Reason           string    `json:"application_document_reason"              validate:"required,max=2000"`
	CitizenNote      *string   `json:"application_document_citizen_note"        validate:"omitempty,max=2000"`
}

type RejectApplicationRequest struct {
	AdminNote *string `json:"application_document_admin_note" validate:"omitempty,max=2000"`
}

// TrackResponse: status ringkas untuk pelacakan publik (tanpa data pribadi).
type TrackResponse struct {
	ID           uuid.UUID `json:"application_document_id"`
	DocumentName string    `json:"master_document_name"`
	Status       string    `json:"application_document_status"`
	AdminNote    *string   `json:"application_document_admin_note,omitempty"`
	File         *string   `json:"application_document_file,omitempty"`
	SubmittedAt  string    `json:"application_document_created_at"`
}
