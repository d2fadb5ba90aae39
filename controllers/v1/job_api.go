package apiv1

import (
	"esign-backend/controllers"
	"esign-backend/lib/signing"
	apimodels "esign-backend/models/api"
	requestapimodels "esign-backend/models/api/request"

	"github.com/gofiber/fiber/v2"
)

type jobApiController struct {
	controllers.BaseAPIController
}

// InitJobApiRouters router - группа /jobs
func InitJobApiRouters(router fiber.Router) {
	controller := jobApiController{}
	router.Get(":id", controller.get)
	router.Delete(":id", controller.cancel)
}

// @Summary Задача подписания
// @Tags Подписание
// @Description Состояние задачи подписания
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "job ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.JobView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := signing.Instance.GetJob(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(requestapimodels.JobConvert(*rec)))
}

// @Summary Отмена задачи
// @Tags Подписание
// @Description Отмена ожидающей задачи, заявка возвращается на подписание
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "job ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id} [delete]
func (c *jobApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = signing.Instance.CancelJob(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отмены задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
