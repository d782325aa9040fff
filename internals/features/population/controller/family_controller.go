package controller

import (
	"strings"

	"desaku_backend/internals/features/population/dto"
	"desaku_backend/internals/features/population/model"
	"desaku_backend/internals/features/population/repository"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"

	"github.com/gofiber/fiber/v2"
)

// GET /api/a/families?q=
func (pc *PopulationController) ListFamilies(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)
	q := pc.DB.WithContext(c.UserContext()).Model(&model.FamilyModel{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("family_no_kk LIKE ? OR family_head_nik LIKE ? OR family_address ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.FamilyModel
	if err := q.Order("family_created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar keluarga", rows, &pg)
}

// GET /api/a/families/:id (dengan anggota)
func (pc *PopulationController) GetFamily(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := repository.FindFamily(c.UserContext(), pc.DB, id, true)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail keluarga", m)
}

// POST /api/a/families
func (pc *PopulationController) CreateFamily(c *fiber.Ctx) error {
	var req dto.CreateFamilyRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel()
	if err := pc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, apperror.ValidationField("family_no_kk", "Nomor KK sudah terdaftar"))
		}
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Keluarga ditambahkan", m)
}

// PATCH /api/a/families/:id
func (pc *PopulationController) UpdateFamily(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateFamilyRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := repository.FindFamily(c.UserContext(), pc.DB, id, false)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(&m)
	if err := pc.DB.WithContext(c.UserContext()).Omit("Members").Save(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Data keluarga diperbarui", m)
}

// DELETE /api/a/families/:id  ditolak bila masih ada anggota.
func (pc *PopulationController) DeleteFamily(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var members int64
	if err := pc.DB.WithContext(c.UserContext()).Model(&model.CitizenModel{}).
		Where("citizen_family_id = ?", id).Count(&members).Error; err != nil {
		return helper.FromError(c, err)
	}
	if members > 0 {
		return helper.FromError(c, apperror.Validation("keluarga masih memiliki %d anggota", members))
	}
	res := pc.DB.WithContext(c.UserContext()).Delete(&model.FamilyModel{}, "family_id = ?", id)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.FromError(c, apperror.NotFound("Keluarga"))
	}
	return helper.JsonDeleted(c, "Keluarga dihapus", fiber.Map{"family_id": id})
}
