package middleware

import (
	"esign-backend/config"
	"esign-backend/lib/rbac"
	authutils "esign-backend/lib/utils/auth-utils"
	"esign-backend/models"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestApp() *fiber.App {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = testSecret
	rbac.Instance = rbac.NewInstance()

	app := fiber.New()
	api := fiber.New()
	app.Mount("/api/v1", api)
	api.Use(AuthorizationRequired())
	api.Use(RbacMiddleware())
	ok := func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUserID(ctx) + "|" + string(GetUserRole(ctx)))
	}
	api.Get("/requests", ok)
	api.Post("/requests", ok)
	return app
}

func token(t *testing.T, secret string, role models.UserRole, ttl time.Duration) string {
	tokenString, err := authutils.GetTokenWithSecret(secret, ttl, "user-1", "Иванов", role, "")
	require.NoError(t, err)
	return tokenString
}

func TestAuthorization(t *testing.T) {
	app := newTestApp()
	tests := []struct {
		name   string
		method string
		url    string
		header string
		status int
	}{
		{name: "без токена", method: fiber.MethodGet, url: "/api/v1/requests", status: fiber.StatusUnauthorized},
		{name: "чужой ключ", method: fiber.MethodGet, url: "/api/v1/requests", header: "Bearer " + token(t, "other", models.UserRoleReader, time.Hour), status: fiber.StatusUnauthorized},
		{name: "просроченный токен", method: fiber.MethodGet, url: "/api/v1/requests", header: "Bearer " + token(t, testSecret, models.UserRoleReader, -time.Hour), status: fiber.StatusUnauthorized},
		{name: "исполнитель создает заявку", method: fiber.MethodPost, url: "/api/v1/requests", header: "Bearer " + token(t, testSecret, models.UserRoleReader, time.Hour), status: fiber.StatusOK},
		{name: "подписанту создание недоступно", method: fiber.MethodPost, url: "/api/v1/requests", header: "Bearer " + token(t, testSecret, models.UserRoleOfficer, time.Hour), status: fiber.StatusForbidden},
		{name: "неизвестная роль", method: fiber.MethodGet, url: "/api/v1/requests", header: "Bearer " + token(t, testSecret, "boss", time.Hour), status: fiber.StatusForbidden},
		{name: "токен в параметре", method: fiber.MethodGet, url: "/api/v1/requests?token=" + token(t, testSecret, models.UserRoleOfficer, time.Hour), status: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
