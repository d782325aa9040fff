package controller

import (
	"desaku_backend/internals/features/dashboard/service"
	helper "desaku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Svc *service.DashboardService
}

// GET /api/a/dashboard
func (dc *DashboardController) Get(c *fiber.Ctx) error {
	out, err := dc.Svc.Build(c.UserContext())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Ringkasan desa", out)
}
