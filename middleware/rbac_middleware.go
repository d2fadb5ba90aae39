package middleware

import (
	"esign-backend/lib/rbac"
	apimodels "esign-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			return forbidden(ctx)
		}
		userRole := GetUserRole(ctx)
		if !userRole.IsValid() {
			return forbidden(ctx)
		}

		rule, found := rbac.Instance.Match(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}
		if !rule.Allow(userID, userRole, ctx.Path()) {
			log.
				WithField("user_id", userID).
				WithField("role", userRole).
				WithField("module", rule.Module).
				WithField("permission", rule.Permission).
				Warn("операция недоступна для роли")
			return forbidden(ctx)
		}
		return ctx.Next()
	}
}

func forbidden(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewErrorWithCode("операция недоступна", "RBAC_FORBIDDEN"))
}
