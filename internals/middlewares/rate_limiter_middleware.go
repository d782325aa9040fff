package middlewares

import (
	"time"

	helper "desaku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func ipLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// GlobalRateLimiter untuk semua endpoint.
func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(120, time.Minute, "Terlalu banyak permintaan. Silakan coba lagi nanti.")
}

func LoginRateLimiter() fiber.Handler {
	return ipLimiter(5, time.Minute, "Terlalu banyak percobaan login. Coba beberapa saat lagi.")
}

func RegisterRateLimiter() fiber.Handler {
	return ipLimiter(3, 5*time.Minute, "Terlalu banyak percobaan pendaftaran. Tunggu beberapa menit.")
}

// SubmissionRateLimiter: pengajuan warga (surat, peminjaman aset).
func SubmissionRateLimiter() fiber.Handler {
	return ipLimiter(10, 10*time.Minute, "Terlalu banyak pengajuan. Coba lagi nanti.")
}
