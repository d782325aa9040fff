package controller

import (
	"strings"

	"desaku_backend/internals/features/social_aids/dto"
	"desaku_backend/internals/features/social_aids/model"
	"desaku_backend/internals/features/social_aids/service"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SocialAidController struct {
	DB  *gorm.DB
	Svc *service.RecipientService
}

func NewSocialAidController(db *gorm.DB, svc *service.RecipientService) *SocialAidController {
	return &SocialAidController{DB: db, Svc: svc}
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, apperror.ValidationField(name, name+" tidak valid")
	}
	return id, nil
}

// GET /social-aids/programs?type=&q=
func (sc *SocialAidController) ListPrograms(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	q := sc.DB.WithContext(c.UserContext()).Model(&model.SocialAidProgramModel{})
	if s := strings.TrimSpace(c.Query("type")); s != "" {
		q = q.Where("social_aid_program_type = ?", s)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("social_aid_program_name ILIKE ?", "%"+s+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.SocialAidProgramModel
	if err := q.Order("social_aid_program_created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar program bantuan", rows, &pg)
}

// GET /social-aids/programs/:id  beserta jumlah penerima & yang sudah mengambil.
func (sc *SocialAidController) GetProgram(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	prog, err := sc.Svc.Repo.FindProgram(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	out := dto.ProgramSummary{SocialAidProgramModel: prog}
	err = sc.DB.WithContext(c.UserContext()).Model(&model.SocialAidRecipientModel{}).
		Select("COUNT(*) AS total_recipients, COUNT(*) FILTER (WHERE social_aid_recipient_status = ?) AS collected", model.RecipientCollected).
		Where("social_aid_recipient_program_id = ?", id).
		Row().Scan(&out.TotalRecipients, &out.Collected)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail program bantuan", out)
}

// POST /api/a/social-aids/programs
func (sc *SocialAidController) CreateProgram(c *fiber.Ctx) error {
	var req dto.CreateProgramRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel()
	if err := sc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Program bantuan dibuat", m)
}

// PATCH /api/a/social-aids/programs/:id
func (sc *SocialAidController) UpdateProgram(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateProgramRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := sc.Svc.Repo.FindProgram(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(&m)
	if err := sc.DB.WithContext(c.UserContext()).Model(&m).
		Select("social_aid_program_name", "social_aid_program_period", "social_aid_program_description").
		Updates(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Program bantuan diperbarui", m)
}

// DELETE /api/a/social-aids/programs/:id  penerima ikut dihapus.
func (sc *SocialAidController) DeleteProgram(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	err = sc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.SocialAidProgramModel{}, "social_aid_program_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("Program bantuan")
		}
		return tx.Delete(&model.SocialAidRecipientModel{}, "social_aid_recipient_program_id = ?", id).Error
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Program bantuan dihapus", fiber.Map{"social_aid_program_id": id})
}

// GET /api/a/social-aids/programs/:id/recipients?status=
func (sc *SocialAidController) ListRecipients(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)
	q := sc.DB.WithContext(c.UserContext()).Model(&model.SocialAidRecipientModel{}).
		Where("social_aid_recipient_program_id = ?", id)
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("social_aid_recipient_status = ?", s)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.SocialAidRecipientModel
	if err := q.Order("social_aid_recipient_created_at ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar penerima bantuan", rows, &pg)
}

// POST /api/a/social-aids/programs/:id/recipients
func (sc *SocialAidController) AddRecipient(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AddRecipientRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	r, err := sc.Svc.Add(c.UserContext(), actor, id, service.AddInput{
		CitizenID: req.CitizenID,
		FamilyID:  req.FamilyID,
		Note:      req.Note,
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, apperror.Validation("penerima sudah terdaftar di program ini"))
		}
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Penerima ditambahkan", r)
}

// PATCH /api/a/social-aids/recipients/:id/collected
func (sc *SocialAidController) MarkCollected(c *fiber.Ctx) error {
	return sc.mark(c, true)
}

// PATCH /api/a/social-aids/recipients/:id/not-collected
func (sc *SocialAidController) MarkNotCollected(c *fiber.Ctx) error {
	return sc.mark(c, false)
}

func (sc *SocialAidController) mark(c *fiber.Ctx, collected bool) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.MarkRecipientRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	var r model.SocialAidRecipientModel
	if collected {
		r, err = sc.Svc.MarkCollected(c.UserContext(), actor, id, req.Note)
	} else {
		r, err = sc.Svc.MarkNotCollected(c.UserContext(), actor, id, req.Note)
	}
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Status penerima diperbarui", r)
}

// DELETE /api/a/social-aids/recipients/:id
func (sc *SocialAidController) DeleteRecipient(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res := sc.DB.WithContext(c.UserContext()).Delete(&model.SocialAidRecipientModel{}, "social_aid_recipient_id = ?", id)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.FromError(c, apperror.NotFound("Penerima bantuan"))
	}
	return helper.JsonDeleted(c, "Penerima dihapus", fiber.Map{"social_aid_recipient_id": id})
}

