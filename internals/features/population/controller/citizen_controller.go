package controller

import (
	"strings"

	"desaku_backend/internals/features/population/dto"
	"desaku_backend/internals/features/population/model"
	"desaku_backend/internals/features/population/repository"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PopulationController struct {
	DB *gorm.DB
}

func NewPopulationController(db *gorm.DB) *PopulationController {
	return &PopulationController{DB: db}
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, apperror.ValidationField(name, name+" tidak valid")
	}
	return id, nil
}

func (pc *PopulationController) ensureFamily(c *fiber.Ctx, id *uuid.UUID) error {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	if _, err := repository.FindFamily(c.UserContext(), pc.DB, *id, false); err != nil {
		return apperror.ValidationField("citizen_family_id", "keluarga tidak ditemukan")
	}
	return nil
}

// GET /api/a/citizens?q=&family_id=&gender=
func (pc *PopulationController) ListCitizens(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)
	q := pc.DB.WithContext(c.UserContext()).Model(&model.CitizenModel{})

	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("citizen_name ILIKE ? OR citizen_nik LIKE ?", like, like)
	}
	if s := strings.TrimSpace(c.Query("family_id")); s != "" {
		fid, err := uuid.Parse(s)
		if err != nil {
			return helper.FromError(c, apperror.ValidationField("family_id", "family_id tidak valid"))
		}
		q = q.Where("citizen_family_id = ?", fid)
	}
	if g := strings.TrimSpace(c.Query("gender")); g != "" {
		q = q.Where("citizen_gender = ?", g)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.CitizenModel
	if err := q.Order("citizen_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar warga", rows, &pg)
}

// GET /api/a/citizens/:id
func (pc *PopulationController) GetCitizen(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := repository.FindCitizen(c.UserContext(), pc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail warga", m)
}

// POST /api/a/citizens
func (pc *PopulationController) CreateCitizen(c *fiber.Ctx) error {
	var req dto.CreateCitizenRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := pc.ensureFamily(c, m.CitizenFamilyID); err != nil {
		return helper.FromError(c, err)
	}
	if err := pc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, apperror.ValidationField("citizen_nik", "NIK sudah terdaftar"))
		}
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Warga ditambahkan", m)
}

// PATCH /api/a/citizens/:id
func (pc *PopulationController) UpdateCitizen(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateCitizenRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := repository.FindCitizen(c.UserContext(), pc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := req.Apply(&m); err != nil {
		return helper.FromError(c, err)
	}
	if err := pc.ensureFamily(c, m.CitizenFamilyID); err != nil {
		return helper.FromError(c, err)
	}
	if err := pc.DB.WithContext(c.UserContext()).Save(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Data warga diperbarui", m)
}

// DELETE /api/a/citizens/:id (soft delete)
func (pc *PopulationController) DeleteCitizen(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res := pc.DB.WithContext(c.UserContext()).Delete(&model.CitizenModel{}, "citizen_id = ?", id)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.FromError(c, apperror.NotFound("Warga"))
	}
	return helper.JsonDeleted(c, "Warga dihapus", fiber.Map{"citizen_id": id})
}
