package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals diisi AuthMiddleware.
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocUserName = "user_name"
)

// Actor adalah identitas pelaku yang diteruskan eksplisit ke setiap operasi inti
// (recorded_by / performed_by / decided_by).
type Actor struct {
	UserID uuid.UUID
	Role   string
	Name   string
}

func (a Actor) IsZero() bool { return a.UserID == uuid.Nil }

// ActorFromCtx membaca identitas dari Locals. 401 bila belum login.
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	id, err := userIDFromLocals(c.Locals(LocUserID))
	if err != nil {
		return Actor{}, err
	}
	role, _ := c.Locals(LocUserRole).(string)
	name, _ := c.Locals(LocUserName).(string)
	return Actor{UserID: id, Role: strings.ToLower(role), Name: name}, nil
}

func userIDFromLocals(v any) (uuid.UUID, error) {
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}
	var s string
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
	return id, nil
}
