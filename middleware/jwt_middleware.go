package middleware

import (
	"esign-backend/config"
	authutils "esign-backend/lib/utils/auth-utils"
	"esign-backend/models"
	apimodels "esign-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthorizationRequired токен из заголовка Authorization, для websocket из параметра token
func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		TokenLookup: "header:Authorization,query:token",
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("требуется авторизация"))
		},
	})
}

func GetUserID(ctx *fiber.Ctx) string {
	return authutils.ActorFromClaims(authutils.GetClaims(ctx)).UserID
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	return authutils.ActorFromClaims(authutils.GetClaims(ctx)).Role
}
