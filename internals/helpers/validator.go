package helper

import (
	"errors"
	"strings"
	"sync"

	"desaku_backend/internals/helpers/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator singleton dengan tag tambahan:
//   - nik: tepat 16 digit angka (NIK / nomor KK)
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("nik", func(fl validator.FieldLevel) bool {
			return IsNIK(fl.Field().String())
		})
	})
	return validate
}

func IsNIK(s string) bool {
	if len(s) != 16 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateStruct menjalankan validator dan membungkus hasilnya sebagai apperror validasi.
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.Validation("input tidak valid: %v", err)
	}
	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := strings.ToLower(fe.Field())
		fields[name] = append(fields[name], fe.Tag())
	}
	return &apperror.Error{Kind: apperror.ErrValidation, Message: "Validasi gagal", Fields: fields}
}

// BindAndValidate: BodyParser + validasi dalam satu langkah.
func BindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	return ValidateStruct(out)
}
