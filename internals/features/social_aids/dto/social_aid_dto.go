package dto

import (
	"strings"

	"desaku_backend/internals/features/social_aids/model"

	"github.com/google/uuid"
)

type CreateProgramRequest struct {
	Name        string  `json:"social_aid_program_name"        validate:"required,min=3,max=150"`
	Type        string  `json:"social_aid_program_type"        validate:"required,oneof=individual household public"`
	Period      string  `json:"social_aid_program_period"      validate:"required,max=50"`
	Description *string `json:"social_aid_program_description" validate:"omitempty,max=2000"`
}

func (r CreateProgramRequest) ToModel() model.SocialAidProgramModel {
	return model.SocialAidProgramModel{
		SocialAidProgramName:        strings.TrimSpace(r.Name),
		SocialAidProgramType:        r.Type,
		SocialAidProgramPeriod:      strings.TrimSpace(r.Period),
		SocialAidProgramDescription: r.Description,
	}
}

// UpdateProgramRequest: jenis program tidak bisa diubah setelah dibuat
// karena menentukan bentuk data penerima.
type UpdateProgramRequest struct {
	Name        *string `json:"social_aid_program_name"        validate:"omitempty,min=3,max=150"`
	Period      *string `json:"social_aid_program_period"      validate:"omitempty,max=50"`
	Description *string `json:"social_aid_program_description" validate:"omitempty,max=2000"`
}

func (r UpdateProgramRequest) Apply(m *model.SocialAidProgramModel) {
	if r.Name != nil {
		m.SocialAidProgramName = strings.TrimSpace(*r.Name)
	}
	if r.Period != nil {
		m.SocialAidProgramPeriod = strings.TrimSpace(*r.Period)
	}
	if r.Description != nil {
		m.SocialAidProgramDescription = r.Description
	}
}

type AddRecipientRequest struct {
	CitizenID *uuid.UUID `json:"social_aid_recipient_citizen_id"`
	FamilyID  *uuid.UUID `json:"social_aid_recipient_family_id"`
	Note      *string    `json:"social_aid_recipient_note" validate:"omitempty,max=1000"`
}

type MarkRecipientRequest struct {
	Note *string `json:"social_aid_recipient_note" validate:"omitempty,max=1000"`
}

// ProgramSummary: ringkasan penyaluran per program.
type ProgramSummary struct {
	model.SocialAidProgramModel
	TotalRecipients int64 `json:"total_recipients"`
	Collected       int64 `json:"collected"`
}
