package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusku_backend/internals/constants"
	helper "campusku_backend/internals/helpers"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})

	admin := app.Group("/api/a",
		AuthJWT(AuthJWTOpts{Secret: testSecret, AllowCookieFallback: true}),
		OnlyRoles(constants.RoleErrorAdmin("this resource"), constants.AdminOnly...),
	)
	admin.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocUserID).(string))
	})

	internal := app.Group("/api/internal", SchedulerJWT(testSecret))
	internal.Post("/run", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func TestAdminGuard(t *testing.T) {
	app := newApp()
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		token  string
		cookie bool
		want   int
	}{
		{"missing token", "", false, fiber.StatusUnauthorized},
		{"garbage token", "not.a.jwt", false, fiber.StatusUnauthorized},
		{"wrong secret", sign(t, "other", jwt.MapClaims{"id": "u1", "role": "admin", "exp": exp}), false, fiber.StatusUnauthorized},
		{"expired", sign(t, testSecret, jwt.MapClaims{"id": "u1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), false, fiber.StatusUnauthorized},
		{"no role", sign(t, testSecret, jwt.MapClaims{"id": "u1", "exp": exp}), false, fiber.StatusUnauthorized},
		{"student", sign(t, testSecret, jwt.MapClaims{"id": "u1", "role": "student", "exp": exp}), false, fiber.StatusForbidden},
		{"admin", sign(t, testSecret, jwt.MapClaims{"id": "u1", "role": "Admin", "exp": exp}), false, fiber.StatusOK},
		{"admin via cookie", sign(t, testSecret, jwt.MapClaims{"id": "u1", "role": "admin", "exp": exp}), true, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/a/ping", nil)
			if tt.token != "" {
				if tt.cookie {
					req.Header.Set("Cookie", "access_token="+tt.token)
				} else {
					req.Header.Set("Authorization", "Bearer "+tt.token)
				}
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSchedulerGuard(t *testing.T) {
	app := newApp()
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"scheduler token", sign(t, testSecret, jwt.MapClaims{"sub": SchedulerSubject, "exp": exp}), fiber.StatusNoContent},
		{"admin token", sign(t, testSecret, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": exp}), fiber.StatusForbidden},
		{"unsigned", "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/internal/run", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSchedulerGuardWithoutSecret(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	app.Post("/run", SchedulerJWT(" "), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	token := sign(t, testSecret, jwt.MapClaims{"sub": SchedulerSubject})
	req := httptest.NewRequest("POST", "/run", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
