package controller

import (
	"errors"
	"strings"

	"desaku_backend/internals/features/events/dto"
	"desaku_backend/internals/features/events/model"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const imageDir = "events/images"

type EventController struct {
	DB    *gorm.DB
	Store storage.FileStore
}

func NewEventController(db *gorm.DB, store storage.FileStore) *EventController {
	return &EventController{DB: db, Store: store}
}

func (ec *EventController) find(c *fiber.Ctx, key string) (model.EventModel, error) {
	var m model.EventModel
	q := ec.DB.WithContext(c.UserContext())
	if id, err := uuid.Parse(key); err == nil {
		q = q.Where("event_id = ?", id)
	} else {
		q = q.Where("event_slug = ?", strings.ToLower(key))
	}
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, apperror.NotFound("Kegiatan")
	}
	return m, err
}

func (ec *EventController) image(c *fiber.Ctx) (*string, error) {
	if !strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("event_image")
	if err != nil || fh == nil {
		return nil, nil
	}
	ref, err := ec.Store.Store(c.UserContext(), imageDir, fh)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (ec *EventController) discard(c *fiber.Ctx, ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := ec.Store.Delete(c.UserContext(), *ref); err != nil {
		zap.L().Warn("hapus file gagal", zap.String("ref", *ref), zap.Error(err))
	}
}

// GET /events?from=&to=&tag=&q=
func (ec *EventController) ListEvents(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	q := ec.DB.WithContext(c.UserContext()).Model(&model.EventModel{})
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		t, err := dto.ParseTime("from", s)
		if err != nil {
			return helper.FromError(c, err)
		}
		q = q.Where("COALESCE(event_end_at, event_start_at) >= ?", t)
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		t, err := dto.ParseTime("to", s)
		if err != nil {
			return helper.FromError(c, err)
		}
		q = q.Where("event_start_at <= ?", t)
	}
	if s := strings.TrimSpace(c.Query("tag")); s != "" {
		q = q.Where("? = ANY(event_tags)", strings.ToLower(s))
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("event_title ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.EventModel
	if err := q.Order("event_start_at ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar kegiatan", rows, &pg)
}

// GET /events/:key (id atau slug)
func (ec *EventController) GetEvent(c *fiber.Ctx) error {
	m, err := ec.find(c, strings.TrimSpace(c.Params("key")))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Detail kegiatan", m)
}

// POST /api/a/events (JSON atau multipart + event_image)
func (ec *EventController) CreateEvent(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateEventRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.FromError(c, err)
	}
	m.EventCreatedBy = &actor.UserID
	if m.EventSlug, err = helper.UniqueSlug(c.UserContext(), ec.DB, "events", "event_slug", helper.Slugify(m.EventTitle), "", nil); err != nil {
		return helper.FromError(c, err)
	}

	img, err := ec.image(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	m.EventImage = img
	if err := ec.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		ec.discard(c, img)
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Kegiatan dibuat", m)
}

// PATCH /api/a/events/:id
func (ec *EventController) UpdateEvent(c *fiber.Ctx) error {
	var req dto.UpdateEventRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ec.find(c, strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.FromError(c, err)
	}
	renamed, err := req.Apply(&m)
	if err != nil {
		return helper.FromError(c, err)
	}
	if renamed {
		if m.EventSlug, err = helper.UniqueSlug(c.UserContext(), ec.DB, "events", "event_slug",
			helper.Slugify(m.EventTitle), "event_id", m.EventID); err != nil {
			return helper.FromError(c, err)
		}
	}

	img, err := ec.image(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	old := m.EventImage
	if img != nil {
		m.EventImage = img
	}
	if err := ec.DB.WithContext(c.UserContext()).Model(&m).
		Select("event_title", "event_slug", "event_description", "event_location",
			"event_start_at", "event_end_at", "event_tags", "event_image").
		Updates(&m).Error; err != nil {
		ec.discard(c, img)
		return helper.FromError(c, err)
	}
	if img != nil {
		ec.discard(c, old)
	}
	return helper.JsonUpdated(c, "Kegiatan diperbarui", m)
}

// DELETE /api/a/events/:id
func (ec *EventController) DeleteEvent(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.FromError(c, apperror.ValidationField("id", "id tidak valid"))
	}
	res := ec.DB.WithContext(c.UserContext()).Delete(&model.EventModel{}, "event_id = ?", id)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.FromError(c, apperror.NotFound("Kegiatan"))
	}
	return helper.JsonDeleted(c, "Kegiatan dihapus", fiber.Map{"event_id": id})
}
