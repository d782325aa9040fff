package controller

import (
	"errors"
	"strings"

	"desaku_backend/internals/features/documents/dto"
	"desaku_backend/internals/features/documents/model"
	"desaku_backend/internals/features/documents/repository"
	"desaku_backend/internals/features/documents/service"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	"desaku_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resultDir = "documents/results"

type DocumentController struct {
	DB    *gorm.DB
	Repo  *repository.GormRepository
	Svc   *service.DocumentService
	Store storage.FileStore
}

func NewDocumentController(db *gorm.DB, svc *service.DocumentService, store storage.FileStore) *DocumentController {
	return &DocumentController{DB: db, Repo: repository.NewGormRepository(db), Svc: svc, Store: store}
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, apperror.ValidationField(name, name+" tidak valid")
	}
	return id, nil
}

// findMaster menerima UUID atau slug.
func (dc *DocumentController) findMaster(c *fiber.Ctx, key string) (model.MasterDocumentModel, error) {
	var m model.MasterDocumentModel
	q := dc.DB.WithContext(c.UserContext())
	if id, err := uuid.Parse(key); err == nil {
		q = q.Where("master_document_id = ?", id)
	} else {
		q = q.Where("master_document_slug = ?", strings.ToLower(key))
	}
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Jenis dokumen")
	}
	return m, err
}

// GET /api/public/master-documents (hanya yang aktif)
func (dc *DocumentController) ListActiveMasters(c *fiber.Ctx) error {
	return dc.listMasters(c, true)
}

// GET /api/a/master-documents
func (dc *DocumentController) ListMasters(c *fiber.Ctx) error {
	return dc.listMasters(c, false)
}

func (dc *DocumentController) listMasters(c *fiber.Ctx, activeOnly bool) error {
	p := helper.ResolvePaging(c, 50, 200)
	q := dc.DB.WithContext(c.UserContext()).Model(&model.MasterDocumentModel{})
	if activeOnly {
		q = q.Where("master_document_is_active = TRUE")
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("master_document_name ILIKE ?", "%"+s+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.MasterDocumentModel
	if err := q.Order("master_document_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar jenis dokumen", rows, &pg)
}

// GET /api/public/master-documents/:key  (id atau slug)
func (dc *DocumentController) GetMaster(c *fiber.Ctx) error {
	m, err := dc.findMaster(c, strings.TrimSpace(c.Params("key")))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail jenis dokumen", m)
}

// POST /api/a/master-documents
func (dc *DocumentController) CreateMaster(c *fiber.Ctx) error {
	var req dto.CreateMasterDocumentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel()
	slug, err := helper.UniqueSlug(c.UserContext(), dc.DB, "master_documents", "master_document_slug", helper.Slugify(m.MasterDocumentName), "", nil)
	if err != nil {
		return helper.FromError(c, err)
	}
	m.MasterDocumentSlug = slug
	if err := dc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Jenis dokumen ditambahkan", m)
}

// PATCH /api/a/master-documents/:id
func (dc *DocumentController) UpdateMaster(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateMasterDocumentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := dc.Repo.FindMaster(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if req.Apply(&m) {
		slug, err := helper.UniqueSlug(c.UserContext(), dc.DB, "master_documents", "master_document_slug",
			helper.Slugify(m.MasterDocumentName), "master_document_id", m.MasterDocumentID)
		if err != nil {
			return helper.FromError(c, err)
		}
		m.MasterDocumentSlug = slug
	}
	if err := dc.DB.WithContext(c.UserContext()).Model(&m).
		Select("master_document_name", "master_document_slug", "master_document_description",
			"master_document_requirements", "master_document_is_active").
		Updates(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Jenis dokumen diperbarui", m)
}

// DELETE /api/a/master-documents/:id  ditolak bila masih ada pengajuan berjalan.
func (dc *DocumentController) DeleteMaster(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var open int64
	if err := dc.DB.WithContext(c.UserContext()).Model(&model.ApplicationDocumentModel{}).
		Where("application_document_master_document_id = ? AND application_document_status IN ?",
			id, []string{model.ApplicationPending, model.ApplicationOnProccess}).
		Count(&open).Error; err != nil {
		return helper.FromError(c, err)
	}
	if open > 0 {
		return helper.FromError(c, apperror.Conflict("masih ada %d pengajuan yang belum selesai", open))
	}
	res := dc.DB.WithContext(c.UserContext()).Delete(&model.MasterDocumentModel{}, "master_document_id = ?", id)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.FromError(c, apperror.NotFound("Jenis dokumen"))
	}
	return helper.JsonDeleted(c, "Jenis dokumen dihapus", fiber.Map{"master_document_id": id})
}
