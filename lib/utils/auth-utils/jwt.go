package authutils

import (
	"esign-backend/config"
	"esign-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GetToken токен пользователя, court - суд подписанта
func GetToken(userID, name string, role models.UserRole, courtID string) (tokenString string, err error) {
	return GetTokenWithSecret(config.Conf.Auth.JWTSecret, time.Second*time.Duration(config.Conf.Auth.JWTExpireInSec),
		userID, name, role, courtID)
}

func GetTokenWithSecret(secret string, ttl time.Duration, userID, name string, role models.UserRole, courtID string) (string, error) {
	claims := jwt.MapClaims{
		"name":  name,
		"sub":   userID,
		"role":  string(role),
		"court": courtID,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

// ActorFromClaims пользователь, выполняющий запрос
func ActorFromClaims(claims jwt.MapClaims) models.Actor {
	actor := models.Actor{}
	actor.UserID, _ = claims["sub"].(string)
	role, _ := claims["role"].(string)
	actor.Role = models.UserRole(role)
	actor.CourtID, _ = claims["court"].(string)
	return actor
}
