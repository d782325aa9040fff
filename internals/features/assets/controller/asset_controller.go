package controller

import (
	"errors"
	"strings"

	"desaku_backend/internals/features/assets/dto"
	"desaku_backend/internals/features/assets/model"
	"desaku_backend/internals/features/assets/service"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	assetImageDir = "assets/images"
	loanProofDir  = "assets/returns"
)

type AssetController struct {
	DB    *gorm.DB
	Svc   *service.LoanService
	Store storage.FileStore
}

func NewAssetController(db *gorm.DB, svc *service.LoanService, store storage.FileStore) *AssetController {
	return &AssetController{DB: db, Svc: svc, Store: store}
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, apperror.ValidationField(name, name+" tidak valid")
	}
	return id, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm)
}

// optionalFile: simpan file form bila ada.
func (ac *AssetController) optionalFile(c *fiber.Ctx, field, dir string) (*string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	ref, err := ac.Store.Store(c.UserContext(), dir, fh)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (ac *AssetController) discard(c *fiber.Ctx, ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := ac.Store.Delete(c.UserContext(), *ref); err != nil {
		zap.L().Warn("hapus file gagal", zap.String("ref", *ref), zap.Error(err))
	}
}

func findAsset(c *fiber.Ctx, db *gorm.DB, id uuid.UUID) (model.AssetModel, error) {
	var m model.AssetModel
	err := db.WithContext(c.UserContext()).First(&m, "asset_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Aset")
	}
	return m, err
}

// GET /api/u/assets?q=&status=
func (ac *AssetController) ListAssets(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	q := ac.DB.WithContext(c.UserContext()).Model(&model.AssetModel{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("asset_name ILIKE ? OR asset_code ILIKE ?", like, like)
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("asset_status = ?", s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.AssetModel
	if err := q.Order("asset_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar aset", rows, &pg)
}

// GET /api/u/assets/:id
func (ac *AssetController) GetAsset(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := findAsset(c, ac.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail aset", m)
}

// POST /api/a/assets (JSON atau multipart + asset_image)
func (ac *AssetController) CreateAsset(c *fiber.Ctx) error {
	var req dto.CreateAssetRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel()

	img, err := ac.optionalFile(c, "asset_image", assetImageDir)
	if err != nil {
		return helper.FromError(c, err)
	}
	m.AssetImage = img
	if err := ac.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		ac.discard(c, img)
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, apperror.ValidationField("asset_code", "kode aset sudah dipakai"))
		}
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Aset ditambahkan", m)
}

// PATCH /api/a/assets/:id
func (ac *AssetController) UpdateAsset(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateAssetRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := findAsset(c, ac.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(&m)

	img, err := ac.optionalFile(c, "asset_image", assetImageDir)
	if err != nil {
		return helper.FromError(c, err)
	}
	old := m.AssetImage
	if img != nil {
		m.AssetImage = img
	}
	// status tidak ikut ditulis: hanya alur peminjaman yang boleh mengubahnya
	if err := ac.DB.WithContext(c.UserContext()).Model(&m).
		Select("asset_name", "asset_code", "asset_description", "asset_condition", "asset_image").
		Updates(&m).Error; err != nil {
		ac.discard(c, img)
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, apperror.ValidationField("asset_code", "kode aset sudah dipakai"))
		}
		return helper.FromError(c, err)
	}
	if img != nil {
		ac.discard(c, old)
	}
	return helper.JsonUpdated(c, "Aset diperbarui", m)
}

// DELETE /api/a/assets/:id  ditolak bila masih ada pengajuan aktif.
func (ac *AssetController) DeleteAsset(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var active int64
	if err := ac.DB.WithContext(c.UserContext()).Model(&model.AssetLoanModel{}).
		Where("asset_loan_asset_id = ? AND asset_loan_status IN ?", id, []string{model.LoanWaitingApproval, model.LoanOnLoan}).
		Count(&active).Error; err != nil {
		return helper.FromError(c, err)
	}
	if active > 0 {
		return helper.FromError(c, apperror.AssetUnavailable("aset masih memiliki peminjaman aktif"))
	}
	res := ac.DB.WithContext(c.UserContext()).Delete(&model.AssetModel{}, "asset_id = ?", id)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.FromError(c, apperror.NotFound("Aset"))
	}
	return helper.JsonDeleted(c, "Aset dihapus", fiber.Map{"asset_id": id})
}
