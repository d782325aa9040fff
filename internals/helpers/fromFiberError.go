package helper

import (
	"errors"

	"desaku_backend/internals/helpers/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FromError mengubah error dari service/transaksi menjadi response JSON konsisten.
func FromError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var ae *apperror.Error
	if errors.As(err, &ae) && ae.Kind == apperror.ErrValidation {
		return JsonValidationError(c, ae.Error(), ae.Fields)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return JsonValidationError(c, err.Error(), nil)
	case errors.Is(err, apperror.ErrInsufficientBalance):
		return JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperror.ErrInvalidTransition),
		errors.Is(err, apperror.ErrAssetUnavailable):
		return JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, apperror.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Success:   false,
			Message:   err.Error(),
			ErrorCode: "CONCURRENCY_CONFLICT",
			Retryable: true,
		})
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		msg := err.Error()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			msg = "Data tidak ditemukan"
		}
		return JsonError(c, fiber.StatusNotFound, msg)
	case errors.Is(err, apperror.ErrForbidden):
		return JsonError(c, fiber.StatusForbidden, err.Error())
	case IsUniqueViolation(err):
		return JsonError(c, fiber.StatusConflict, "Data sudah ada (duplikat)")
	}

	zap.L().Error("unhandled error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}

// IsUniqueViolation: Postgres SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
