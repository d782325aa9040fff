package dto

import (
	"strings"
	"time"

	"desaku_backend/internals/features/population/model"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* ===================== Citizen ===================== */

type CreateCitizenRequest struct {
	NIK        string     `json:"citizen_nik"         validate:"required,nik"`
	Name       string     `json:"citizen_name"        validate:"required,min=2,max=150"`
	Gender     string     `json:"citizen_gender"      validate:"required,oneof=male female"`
	BirthPlace string     `json:"citizen_birth_place" validate:"omitempty,max=100"`
	BirthDate  *string    `json:"citizen_birth_date"`
	Address    string     `json:"citizen_address"     validate:"omitempty,max=500"`
	Email      *string    `json:"citizen_email"       validate:"omitempty,email"`
	Phone      *string    `json:"citizen_phone"       validate:"omitempty,max=20"`
	Religion   *string    `json:"citizen_religion"    validate:"omitempty,max=30"`
	Occupation *string    `json:"citizen_occupation"  validate:"omitempty,max=100"`
	FamilyID   *uuid.UUID `json:"citizen_family_id"`
}

func parseOptDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := dbtime.ParseDate(*s)
	if err != nil {
		return nil, apperror.ValidationField(field, "format tanggal YYYY-MM-DD")
	}
	return &d, nil
}

func (r CreateCitizenRequest) ToModel() (model.CitizenModel, error) {
	bd, err := parseOptDate("citizen_birth_date", r.BirthDate)
	if err != nil {
		return model.CitizenModel{}, err
	}
	return model.CitizenModel{
		CitizenNIK:        strings.TrimSpace(r.NIK),
		CitizenName:       strings.TrimSpace(r.Name),
		CitizenGender:     r.Gender,
		CitizenBirthPlace: strings.TrimSpace(r.BirthPlace),
		CitizenBirthDate:  bd,
		CitizenAddress:    strings.TrimSpace(r.Address),
		CitizenEmail:      r.Email,
		CitizenPhone:      r.Phone,
		CitizenReligion:   r.Religion,
		CitizenOccupation: r.Occupation,
		CitizenFamilyID:   r.FamilyID,
	}, nil
}

// UpdateCitizenRequest: nil = tidak diubah. NIK tidak bisa diubah.
type UpdateCitizenRequest struct {
	Name       *string    `json:"citizen_name"        validate:"omitempty,min=2,max=150"`
	Gender     *string    `json:"citizen_gender"      validate:"omitempty,oneof=male female"`
	BirthPlace *string    `json:"citizen_birth_place" validate:"omitempty,max=100"`
	BirthDate  *string    `json:"citizen_birth_date"`
	Address    *string    `json:"citizen_address"     validate:"omitempty,max=500"`
	Email      *string    `json:"citizen_email"       validate:"omitempty,email"`
	Phone      *string    `json:"citizen_phone"       validate:"omitempty,max=20"`
	Religion   *string    `json:"citizen_religion"    validate:"omitempty,max=30"`
	Occupation *string    `json:"citizen_occupation"  validate:"omitempty,max=100"`
	FamilyID   *uuid.UUID `json:"citizen_family_id"`
}

func (r UpdateCitizenRequest) Apply(m *model.CitizenModel) error {
	if r.Name != nil {
		m.CitizenName = strings.TrimSpace(*r.Name)
	}
	if r.Gender != nil {
		m.CitizenGender = *r.Gender
	}
	if r.BirthPlace != nil {
		m.CitizenBirthPlace = strings.TrimSpace(*r.BirthPlace)
	}
	if r.BirthDate != nil {
		bd, err := parseOptDate("citizen_birth_date", r.BirthDate)
		if err != nil {
			return err
		}
		m.CitizenBirthDate = bd
	}
	if r.Address != nil {
		m.CitizenAddress = strings.TrimSpace(*r.Address)
	}
	if r.Email != nil {
		m.CitizenEmail = r.Email
	}
	if r.Phone != nil {
		m.CitizenPhone = r.Phone
	}
	if r.Religion != nil {
		m.CitizenReligion = r.Religion
	}
	if r.Occupation != nil {
		m.CitizenOccupation = r.Occupation
	}
	if r.FamilyID != nil {
		if *r.FamilyID == uuid.Nil {
			m.CitizenFamilyID = nil
		} else {
			m.CitizenFamilyID = r.FamilyID
		}
	}
	return nil
}

/* ===================== Family ===================== */

type CreateFamilyRequest struct {
	NoKK    string  `json:"family_no_kk"    validate:"required,nik"`
	HeadNIK string  `json:"family_head_nik" validate:"required,nik"`
	Address string  `json:"family_address"  validate:"required,max=500"`
	RT      *string `json:"family_rt"       validate:"omitempty,numeric,max=3"`
	RW      *string `json:"family_rw"       validate:"omitempty,numeric,max=3"`
}

func (r CreateFamilyRequest) ToModel() model.FamilyModel {
	return model.FamilyModel{
		FamilyNoKK:    strings.TrimSpace(r.NoKK),
		FamilyHeadNIK: strings.TrimSpace(r.HeadNIK),
		FamilyAddress: strings.TrimSpace(r.Address),
		FamilyRT:      r.RT,
		FamilyRW:      r.RW,
	}
}

type UpdateFamilyRequest struct {
	HeadNIK *string `json:"family_head_nik" validate:"omitempty,nik"`
	Address *string `json:"family_address"  validate:"omitempty,max=500"`
	RT      *string `json:"family_rt"       validate:"omitempty,numeric,max=3"`
	RW      *string `json:"family_rw"       validate:"omitempty,numeric,max=3"`
}

func (r UpdateFamilyRequest) Apply(m *model.FamilyModel) {
	if r.HeadNIK != nil {
		m.FamilyHeadNIK = strings.TrimSpace(*r.HeadNIK)
	}
	if r.Address != nil {
		m.FamilyAddress = strings.TrimSpace(*r.Address)
	}
	if r.RT != nil {
		m.FamilyRT = r.RT
	}
	if r.RW != nil {
		m.FamilyRW = r.RW
	}
}
