package controller

import (
	"strings"

	"desaku_backend/internals/features/notifications/repository"
	helper "desaku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type NotificationLogController struct {
	Store *repository.GormLogStore
}

// GET /api/a/notifications?status=&entity_type=&entity_id=
func (ctl *NotificationLogController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Store.List(c.UserContext(), repository.ListFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		EntityType: strings.TrimSpace(c.Query("entity_type")),
		EntityID:   strings.TrimSpace(c.Query("entity_id")),
		Offset:     p.Offset,
		Limit:      p.Limit,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Log notifikasi", rows, &pg)
}
