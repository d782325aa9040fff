package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
	"go.uber.org/zap"
)

const LocRequestID = "reqid"

// RequestContext: X-Request-ID (dibuat bila kosong) + batas waktu request yang
// diteruskan ke service lewat c.UserContext(), selaras statement_timeout DB.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals(LocRequestID, id)

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		start := time.Now()
		err := c.Next()
		if d := time.Since(start); d > timeout/2 {
			zap.L().Warn("slow request",
				zap.String("request_id", id),
				zap.String("method", c.Method()),
				zap.String("path", c.OriginalURL()),
				zap.Duration("dur", d),
			)
		}
		return err
	}
}
