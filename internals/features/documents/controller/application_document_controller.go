package controller

import (
	"errors"
	"strings"

	"desaku_backend/internals/constants"
	"desaku_backend/internals/features/documents/dto"
	"desaku_backend/internals/features/documents/repository"
	"desaku_backend/internals/features/documents/service"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type account struct {
	UserName   string
	Email      string
	CitizenNIK *string
}

func (dc *DocumentController) accountOf(c *fiber.Ctx, actor helperAuth.Actor) (account, error) {
	var a account
	err := dc.DB.WithContext(c.UserContext()).
		Table("users").
		Select("user_name, email, citizen_nik").
		Where("id = ?", actor.UserID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a, apperror.Forbidden("akun tidak ditemukan")
	}
	return a, err
}

func isStaff(a helperAuth.Actor) bool {
	return a.Role == constants.RoleAdmin || a.Role == constants.RoleOperator
}

// POST /api/u/document-applications
// Warga: NIK, nama dan email default dari akun. Staf: NIK & nama wajib di body.
func (dc *DocumentController) Submit(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SubmitApplicationRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	in := service.SubmitInput{
		MasterDocumentID: req.MasterDocumentID,
		NIK:              req.NIK,
		Name:             req.Name,
		Email:            req.Email,
		Reason:           req.Reason,
		CitizenNote:      req.CitizenNote,
	}
	if !isStaff(actor) {
		acc, err := dc.accountOf(c, actor)
		if err != nil {
			return helper.FromError(c, err)
		}
		if acc.CitizenNIK == nil || *acc.CitizenNIK == "" {
			return helper.FromError(c, apperror.Forbidden("akun belum terhubung dengan NIK"))
		}
		// warga hanya boleh mengajukan atas NIK sendiri
		in.NIK = *acc.CitizenNIK
		if strings.TrimSpace(in.Name) == "" {
			in.Name = acc.UserName
		}
		if in.Email == nil && acc.Email != "" {
			in.Email = &acc.Email
		}
	}

	doc, err := dc.Svc.Submit(c.UserContext(), actor, in)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Pengajuan dokumen dikirim", doc)
}

// GET /api/u/document-applications/mine
func (dc *DocumentController) MyApplications(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	acc, err := dc.accountOf(c, actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	if acc.CitizenNIK == nil || *acc.CitizenNIK == "" {
		return helper.FromError(c, apperror.Forbidden("akun belum terhubung dengan NIK"))
	}
	return dc.list(c, *acc.CitizenNIK)
}

// GET /api/a/document-applications?status=&nik=&master_document_id=
func (dc *DocumentController) ListApplications(c *fiber.Ctx) error {
	return dc.list(c, strings.TrimSpace(c.Query("nik")))
}

func (dc *DocumentController) list(c *fiber.Ctx, nik string) error {
	p := helper.ResolvePaging(c, 20, 100)
	f := repository.ApplicationFilter{
		Status: strings.TrimSpace(c.Query("status")),
		NIK:    nik,
		Offset: p.Offset,
		Limit:  p.Limit,
	}
	if s := strings.TrimSpace(c.Query("master_document_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.FromError(c, apperror.ValidationField("master_document_id", "master_document_id tidak valid"))
		}
		f.MasterDocumentID = &id
	}
	rows, total, err := dc.Repo.ListApplications(c.UserContext(), f)
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar pengajuan dokumen", rows, &pg)
}

// GET /api/a/document-applications/:id
func (dc *DocumentController) GetApplication(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	doc, err := dc.Repo.FindApplication(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail pengajuan dokumen", doc)
}

// GET /api/public/document-applications/track?id=&nik=
// NIK dan id harus cocok; respons tanpa data pribadi.
func (dc *DocumentController) Track(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Query("id")))
	if err != nil {
		return helper.FromError(c, apperror.ValidationField("id", "id pengajuan tidak valid"))
	}
	nik := strings.TrimSpace(c.Query("nik"))
	if !helper.IsNIK(nik) {
		return helper.FromError(c, apperror.ValidationField("nik", "NIK harus 16 digit angka"))
	}
	doc, err := dc.Repo.FindApplication(c.UserContext(), id)
	if err != nil || doc.ApplicationDocumentApplicantNIK != nik {
		return helper.FromError(c, apperror.NotFound("Pengajuan dokumen"))
	}

	out := dto.TrackResponse{
		ID:          doc.ApplicationDocumentID,
		Status:      doc.ApplicationDocumentStatus,
		AdminNote:   doc.ApplicationDocumentAdminNote,
		File:        doc.ApplicationDocumentFile,
		SubmittedAt: dbtime.FormatDate(doc.ApplicationDocumentCreatedAt),
	}
	if m, err := dc.Repo.FindMaster(c.UserContext(), doc.ApplicationDocumentMasterDocumentID); err == nil {
		out.DocumentName = m.MasterDocumentName
	}
	return helper.JsonOK(c, "Status pengajuan", out)
}

// PATCH /api/a/document-applications/:id/process
func (dc *DocumentController) Process(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	doc, err := dc.Svc.Process(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Pengajuan diproses", doc)
}

// PATCH /api/a/document-applications/:id/complete
// multipart: application_document_file (wajib), application_document_admin_note.
func (dc *DocumentController) Complete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var file string
	if fh, err := c.FormFile("application_document_file"); err == nil && fh != nil {
		if file, err = dc.Store.Store(c.UserContext(), resultDir, fh); err != nil {
			return helper.FromError(c, err)
		}
	}
	var note *string
	if s := c.FormValue("application_document_admin_note"); s != "" {
		note = &s
	}

	doc, err := dc.Svc.Complete(c.UserContext(), actor, id, file, note)
	if err != nil {
		if file != "" {
			if derr := dc.Store.Delete(c.UserContext(), file); derr != nil {
				zap.L().Warn("hapus file gagal", zap.String("ref", file), zap.Error(derr))
			}
		}
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Dokumen selesai", doc)
}

// PATCH /api/a/document-applications/:id/reject
func (dc *DocumentController) Reject(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RejectApplicationRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	doc, err := dc.Svc.Reject(c.UserContext(), actor, id, req.AdminNote)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Pengajuan ditolak", doc)
}
