package publicapi

import (
	"context"
	"esign-backend/db"
	apimodels "esign-backend/models/api"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func InitHealthRouters(app fiber.Router) {
	app.Get("health", health)
}

// @Summary Проверка доступности
// @Tags Служебное
// @Description Проверка соединения с БД
// @Success 200 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/public/health [get]
func health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 3*time.Second)
	defer cancel()
	if err := db.PingDB(pingCtx); err != nil {
		log.WithError(err).Warn("БД недоступна")
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("БД недоступна"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
