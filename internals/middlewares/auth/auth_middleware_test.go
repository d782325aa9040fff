package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authModel "desaku_backend/internals/features/users/auth/model"
	authService "desaku_backend/internals/features/users/auth/service"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type fakeGuard struct {
	blacklisted map[string]bool
	inactive    map[uuid.UUID]bool
}

func (f fakeGuard) IsBlacklisted(_ context.Context, tok string) (bool, error) {
	return f.blacklisted[tok], nil
}

func (f fakeGuard) IsUserActive(_ context.Context, id uuid.UUID) (bool, error) {
	return !f.inactive[id], nil
}

const secret = "test-secret"

func newApp(guard TokenGuard, roles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{AuthWithGuard(guard, secret)}
	if len(roles) > 0 {
		handlers = append(handlers, OnlyRoles("khusus staf", roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		a, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		return c.SendString(a.Role + ":" + a.UserID.String())
	})
	app.Get("/p", handlers...)
	return app
}

func issue(t *testing.T, u authModel.UserModel, ttl time.Duration) string {
	t.Helper()
	tok, _, err := authService.IssueAccessToken(secret, u, time.Now(), ttl)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func do(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestAuthMiddleware(t *testing.T) {
	admin := authModel.UserModel{ID: uuid.New(), Role: "admin", UserName: "kades"}
	citizen := authModel.UserModel{ID: uuid.New(), Role: "citizen", UserName: "warga"}
	disabled := authModel.UserModel{ID: uuid.New(), Role: "operator"}

	adminTok := issue(t, admin, time.Hour)
	loggedOut := issue(t, citizen, 2*time.Hour)
	guard := fakeGuard{
		blacklisted: map[string]bool{loggedOut: true},
		inactive:    map[uuid.UUID]bool{disabled.ID: true},
	}
	app := newApp(guard)

	if code, body := do(t, app, adminTok); code != fiber.StatusOK || !strings.HasPrefix(body, "admin:") {
		t.Fatalf("valid token: %d %s", code, body)
	}
	if code, _ := do(t, app, ""); code != fiber.StatusUnauthorized {
		t.Fatalf("missing token: %d", code)
	}
	if code, _ := do(t, app, "garbage"); code != fiber.StatusUnauthorized {
		t.Fatalf("garbage token: %d", code)
	}
	if code, _ := do(t, app, loggedOut); code != fiber.StatusUnauthorized {
		t.Fatalf("blacklisted token: %d", code)
	}
	if code, _ := do(t, app, issue(t, disabled, time.Hour)); code != fiber.StatusForbidden {
		t.Fatalf("inactive user: %d", code)
	}
	if code, _ := do(t, app, issue(t, admin, -time.Hour)); code != fiber.StatusUnauthorized {
		t.Fatalf("expired token: %d", code)
	}
}

func TestOnlyRoles(t *testing.T) {
	app := newApp(fakeGuard{}, "admin", "operator")

	op := authModel.UserModel{ID: uuid.New(), Role: "operator"}
	if code, _ := do(t, app, issue(t, op, time.Hour)); code != fiber.StatusOK {
		t.Fatalf("operator should pass: %d", code)
	}
	cit := authModel.UserModel{ID: uuid.New(), Role: "citizen"}
	code, body := do(t, app, issue(t, cit, time.Hour))
	if code != fiber.StatusForbidden || !strings.Contains(body, "khusus staf") {
		t.Fatalf("citizen should be forbidden: %d %s", code, body)
	}
}
