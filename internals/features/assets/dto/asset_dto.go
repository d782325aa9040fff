package dto

import (
	"strings"
	"time"

	"desaku_backend/internals/features/assets/model"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* ===================== Asset ===================== */

type CreateAssetRequest struct {
	Name        string  `json:"asset_name"        form:"asset_name"        validate:"required,min=2,max=150"`
	Code        string  `json:"asset_code"        form:"asset_code"        validate:"required,max=50"`
	Description *string `json:"asset_description" form:"asset_description" validate:"omitempty,max=2000"`
	Condition   string  `json:"asset_condition"   form:"asset_condition"   validate:"omitempty,max=50"`
}

func (r CreateAssetRequest) ToModel() model.AssetModel {
	cond := strings.TrimSpace(r.Condition)
	if cond == "" {
		cond = "baik"
	}
	return model.AssetModel{
		AssetName:        strings.TrimSpace(r.Name),
		AssetCode:        strings.ToUpper(strings.TrimSpace(r.Code)),
		AssetDescription: r.Description,
		AssetCondition:   cond,
		AssetStatus:      model.AssetStatusIdle,
	}
}

// UpdateAssetRequest: status aset tidak bisa diubah manual, hanya lewat peminjaman.
type UpdateAssetRequest struct {
	Name        *string `json:"asset_name"        form:"asset_name"        validate:"omitempty,min=2,max=150"`
	Code        *string `json:"asset_code"        form:"asset_code"        validate:"omitempty,max=50"`
	Description *string `json:"asset_description" form:"asset_description" validate:"omitempty,max=2000"`
	Condition   *string `json:"asset_condition"   form:"asset_condition"   validate:"omitempty,max=50"`
}

func (r UpdateAssetRequest) Apply(m *model.AssetModel) {
	if r.Name != nil {
		m.AssetName = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		m.AssetCode = strings.ToUpper(strings.TrimSpace(*r.Code))
	}
	if r.Description != nil {
		m.AssetDescription = r.Description
	}
	if r.Condition != nil {
		m.AssetCondition = strings.TrimSpace(*r.Condition)
	}
}

/* ===================== Loan ===================== */

type LoanRequest struct {
	AssetID            uuid.UUID  `json:"asset_loan_asset_id"             validate:"required"`
	CitizenID          *uuid.UUID `json:"asset_loan_citizen_id"`
	Reason             string     `json:"asset_loan_reason"               validate:"required,max=1000"`
	Note               *string    `json:"asset_loan_note"                 validate:"omitempty,max=1000"`
	ExpectedReturnDate *string    `json:"asset_loan_expected_return_date"`
}

type ApproveLoanRequest struct {
	ExpectedReturnDate string  `json:"asset_loan_expected_return_date" validate:"required"`
	Note               *string `json:"asset_loan_note"                 validate:"omitempty,max=1000"`
}

type RejectLoanRequest struct {
	Note *string `json:"asset_loan_note" validate:"omitempty,max=1000"`
}

func ParseDateField(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := dbtime.ParseDate(*s)
	if err != nil {
		return nil, apperror.ValidationField(field, "format tanggal YYYY-MM-DD")
	}
	return &d, nil
}
