package controller

import (
	"errors"
	"strings"

	"desaku_backend/internals/constants"
	authDto "desaku_backend/internals/features/users/auth/dto"
	authModel "desaku_backend/internals/features/users/auth/model"
	authService "desaku_backend/internals/features/users/auth/service"
	userdto "desaku_backend/internals/features/users/users/dto"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUserController struct {
	DB *gorm.DB
}

func NewAdminUserController(db *gorm.DB) *AdminUserController { return &AdminUserController{DB: db} }

func (ac *AdminUserController) find(c *fiber.Ctx) (authModel.UserModel, error) {
	var u authModel.UserModel
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return u, apperror.ValidationField("id", "id tidak valid")
	}
	err = ac.DB.WithContext(c.UserContext()).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, apperror.NotFound("Akun")
	}
	return u, err
}

// checkNIK: NIK yang ditautkan harus terdaftar sebagai penduduk.
func (ac *AdminUserController) checkNIK(c *fiber.Ctx, nik string) error {
	if !helper.IsNIK(nik) {
		return apperror.ValidationField("citizen_nik", "NIK harus 16 digit angka")
	}
	var n int64
	if err := ac.DB.WithContext(c.UserContext()).Table("citizens").
		Where("citizen_nik = ? AND citizen_deleted_at IS NULL", nik).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperror.ValidationField("citizen_nik", "NIK belum terdaftar di data penduduk")
	}
	return nil
}

// GET /api/a/users?q=&role=&is_active=
func (ac *AdminUserController) ListUsers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	tx := ac.DB.WithContext(c.UserContext()).Model(&authModel.UserModel{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("user_name ILIKE ? OR email ILIKE ? OR citizen_nik = ?", like, like, q)
	}
	if r := strings.ToLower(strings.TrimSpace(c.Query("role"))); r != "" {
		tx = tx.Where("role = ?", r)
	}
	switch strings.ToLower(c.Query("is_active")) {
	case "1", "true":
		tx = tx.Where("is_active = TRUE")
	case "0", "false":
		tx = tx.Where("is_active = FALSE")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var users []authModel.UserModel
	if err := tx.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&users).Error; err != nil {
		return helper.FromError(c, err)
	}
	resp := make([]authDto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, authDto.ToUserResponse(u))
	}
	pg := helper.BuildPagination(total, p, len(resp))
	return helper.JsonList(c, "Daftar akun", resp, &pg)
}

// GET /api/a/users/:id
func (ac *AdminUserController) GetUser(c *fiber.Ctx) error {
	u, err := ac.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail akun", authDto.ToUserResponse(u))
}

// POST /api/a/users
func (ac *AdminUserController) CreateUser(c *fiber.Ctx) error {
	var req userdto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format input tidak valid")
	}
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return helper.FromError(c, err)
	}
	if req.CitizenNIK != nil {
		if err := ac.checkNIK(c, *req.CitizenNIK); err != nil {
			return helper.FromError(c, err)
		}
	}
	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.FromError(c, err)
	}
	u := req.ToModel(hash)
	if err := ac.DB.WithContext(c.UserContext()).Create(&u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, apperror.ValidationField("email", "Email sudah terdaftar"))
		}
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Akun dibuat", authDto.ToUserResponse(u))
}

// PATCH /api/a/users/:id  (nama, role, status aktif, tautan NIK)
func (ac *AdminUserController) UpdateUser(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req userdto.UpdateUserRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	u, err := ac.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	// admin tidak boleh mengunci dirinya sendiri
	if u.ID == actor.UserID && ((req.IsActive != nil && !*req.IsActive) ||
		(req.Role != nil && !strings.EqualFold(strings.TrimSpace(*req.Role), constants.RoleAdmin))) {
		return helper.FromError(c, apperror.Forbidden("tidak dapat menurunkan atau menonaktifkan akun sendiri"))
	}

	cols := req.Apply(&u)
	if len(cols) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", authDto.ToUserResponse(u))
	}
	if u.CitizenNIK != nil && req.CitizenNIK != nil {
		if err := ac.checkNIK(c, *u.CitizenNIK); err != nil {
			return helper.FromError(c, err)
		}
	}
	if err := ac.DB.WithContext(c.UserContext()).Model(&u).Select(cols).Updates(&u).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Akun diperbarui", authDto.ToUserResponse(u))
}

// DELETE /api/a/users/:id
func (ac *AdminUserController) DeleteUser(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	u, err := ac.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if u.ID == actor.UserID {
		return helper.FromError(c, apperror.Forbidden("tidak dapat menghapus akun sendiri"))
	}
	if err := ac.DB.WithContext(c.UserContext()).Delete(&authModel.UserModel{}, "id = ?", u.ID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Akun dihapus", fiber.Map{"id": u.ID})
}
