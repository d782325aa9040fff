package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	LoanWaitingApproval = "waiting_approval"
	LoanRejected        = "rejected"
	LoanOnLoan          = "on_loan"
	LoanReturned        = "returned"
)

// AssetLoanModel: satu pengajuan peminjaman. Maju saja:
// waiting_approval → on_loan | rejected, on_loan → returned.
type AssetLoanModel struct {
	AssetLoanID                  uuid.UUID  `gorm:"column:asset_loan_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"asset_loan_id"`
	AssetLoanAssetID             uuid.UUID  `gorm:"column:asset_loan_asset_id;type:uuid;not null;index:idx_asset_loan_asset_status,priority:1" json:"asset_loan_asset_id"`
	AssetLoanCitizenID           uuid.UUID  `gorm:"column:asset_loan_citizen_id;type:uuid;not null;index" json:"asset_loan_citizen_id"`
	AssetLoanStatus              string     `gorm:"column:asset_loan_status;type:varchar(20);not null;default:'waiting_approval';index:idx_asset_loan_asset_status,priority:2;check:asset_loan_status IN ('waiting_approval','rejected','on_loan','returned')" json:"asset_loan_status"`
	AssetLoanReason              string     `gorm:"column:asset_loan_reason;type:text;not null" json:"asset_loan_reason"`
	AssetLoanNote                *string    `gorm:"column:asset_loan_note;type:text" json:"asset_loan_note,omitempty"`
	AssetLoanBorrowedAt          *time.Time `gorm:"column:asset_loan_borrowed_at;type:timestamptz" json:"asset_loan_borrowed_at,omitempty"`
	AssetLoanExpectedReturnDate  *time.Time `gorm:"column:asset_loan_expected_return_date;type:date" json:"asset_loan_expected_return_date,omitempty"`
	AssetLoanReturnedAt          *time.Time `gorm:"column:asset_loan_returned_at;type:timestamptz" json:"asset_loan_returned_at,omitempty"`
	AssetLoanReturnConditionNote *string    `gorm:"column:asset_loan_return_condition_note;type:text" json:"asset_loan_return_condition_note,omitempty"`
	AssetLoanReturnProofImage    *string    `gorm:"column:asset_loan_return_proof_image;type:text" json:"asset_loan_return_proof_image,omitempty"`
	AssetLoanDecidedBy           *uuid.UUID `gorm:"column:asset_loan_decided_by;type:uuid" json:"asset_loan_decided_by,omitempty"`
	AssetLoanRequestedBy         uuid.UUID  `gorm:"column:asset_loan_requested_by;type:uuid;not null" json:"asset_loan_requested_by"`
	AssetLoanLastRemindedAt      *time.Time `gorm:"column:asset_loan_last_reminded_at;type:timestamptz" json:"asset_loan_last_reminded_at,omitempty"`

	AssetLoanCreatedAt time.Time `gorm:"column:asset_loan_created_at;autoCreateTime" json:"asset_loan_created_at"`
	AssetLoanUpdatedAt time.Time `gorm:"column:asset_loan_updated_at;autoUpdateTime" json:"asset_loan_updated_at"`
}

func (AssetLoanModel) TableName() string { return "asset_loans" }

// CanTransition: tabel transisi peminjaman.
func CanTransition(from, to string) bool {
	switch from {
	case LoanWaitingApproval:
		return to == LoanOnLoan || to == LoanRejected
	case LoanOnLoan:
		return to == LoanReturned
	}
	return false
}
