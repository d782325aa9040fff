package controller

import (
	"errors"
	"strings"
	"time"

	"desaku_backend/internals/constants"
	"desaku_backend/internals/features/assets/dto"
	"desaku_backend/internals/features/assets/model"
	"desaku_backend/internals/features/assets/service"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// citizenOf: citizen_id milik akun warga (lewat users.citizen_nik).
func citizenOf(c *fiber.Ctx, db *gorm.DB, actor helperAuth.Actor) (uuid.UUID, error) {
	var row struct{ CitizenID uuid.UUID }
	err := db.WithContext(c.UserContext()).
		Table("users u").
		Select("ct.citizen_id").
		Joins("JOIN citizens ct ON ct.citizen_nik = u.citizen_nik AND ct.citizen_deleted_at IS NULL").
		Where("u.id = ?", actor.UserID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || row.CitizenID == uuid.Nil {
		return uuid.Nil, apperror.Forbidden("akun belum terhubung dengan data warga (NIK)")
	}
	return row.CitizenID, err
}

func isStaff(a helperAuth.Actor) bool {
	return a.Role == constants.RoleAdmin || a.Role == constants.RoleOperator
}

// POST /api/u/asset-loans
// Warga: peminjam = dirinya. Staf: wajib isi asset_loan_citizen_id.
func (ac *AssetController) RequestLoan(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.LoanRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	due, err := dto.ParseDateField("asset_loan_expected_return_date", req.ExpectedReturnDate)
	if err != nil {
		return helper.FromError(c, err)
	}

	var citizenID uuid.UUID
	switch {
	case isStaff(actor) && req.CitizenID != nil:
		citizenID = *req.CitizenID
	case isStaff(actor):
		return helper.FromError(c, apperror.ValidationField("asset_loan_citizen_id", "peminjam wajib diisi"))
	default:
		if citizenID, err = citizenOf(c, ac.DB, actor); err != nil {
			return helper.FromError(c, err)
		}
	}

	loan, err := ac.Svc.Request(c.UserContext(), actor, service.RequestInput{
		AssetID:            req.AssetID,
		CitizenID:          citizenID,
		Reason:             req.Reason,
		Note:               req.Note,
		ExpectedReturnDate: due,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Pengajuan peminjaman dibuat", loan)
}

// GET /api/u/asset-loans/mine
func (ac *AssetController) MyLoans(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	citizenID, err := citizenOf(c, ac.DB, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	return ac.listLoans(c, &citizenID)
}

// GET /api/a/asset-loans?status=&asset_id=
func (ac *AssetController) ListLoans(c *fiber.Ctx) error {
	return ac.listLoans(c, nil)
}

func (ac *AssetController) listLoans(c *fiber.Ctx, citizenID *uuid.UUID) error {
	p := helper.ResolvePaging(c, 20, 100)
	q := ac.DB.WithContext(c.UserContext()).Model(&model.AssetLoanModel{})
	if citizenID != nil {
		q = q.Where("asset_loan_citizen_id = ?", *citizenID)
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("asset_loan_status = ?", s)
	}
	if s := strings.TrimSpace(c.Query("asset_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.FromError(c, apperror.ValidationField("asset_id", "asset_id tidak valid"))
		}
		q = q.Where("asset_loan_asset_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.AssetLoanModel
	if err := q.Order("asset_loan_created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar peminjaman", rows, &pg)
}

// GET /api/a/asset-loans/:id
func (ac *AssetController) GetLoan(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	loan, err := ac.Svc.Repo.FindLoan(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail peminjaman", loan)
}

// PATCH /api/a/asset-loans/:id/approve
func (ac *AssetController) ApproveLoan(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ApproveLoanRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	due, err := dto.ParseDateField("asset_loan_expected_return_date", &req.ExpectedReturnDate)
	if err != nil {
		return helper.FromError(c, err)
	}
	var dueAt time.Time
	if due != nil {
		dueAt = *due
	}

	loan, err := ac.Svc.Approve(c.UserContext(), actor, id, dueAt, req.Note)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Peminjaman disetujui", loan)
}

// PATCH /api/a/asset-loans/:id/reject
func (ac *AssetController) RejectLoan(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RejectLoanRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	loan, err := ac.Svc.Reject(c.UserContext(), actor, id, req.Note)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Peminjaman ditolak", loan)
}

// PATCH /api/a/asset-loans/:id/return  (multipart: asset_loan_return_proof_image wajib)
func (ac *AssetController) ReturnLoan(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	proof, err := ac.optionalFile(c, "asset_loan_return_proof_image", loanProofDir)
	if err != nil {
		return helper.FromError(c, err)
	}
	in := service.ReturnInput{}
	if proof != nil {
		in.ProofImage = *proof
	}
	if s := strings.TrimSpace(c.FormValue("asset_loan_return_condition_note")); s != "" {
		in.ConditionNote = &s
	}

	loan, err := ac.Svc.Return(c.UserContext(), actor, id, in)
	if err != nil {
		ac.discard(c, proof)
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Aset dikembalikan", loan)
}
