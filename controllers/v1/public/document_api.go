package publicapi

import (
	"esign-backend/controllers"
	requesthandler "esign-backend/lib/request"
	apimodels "esign-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type documentApiController struct {
	controllers.BaseAPIController
}

func InitPublicDocumentRouters(app fiber.Router) {
	controller := documentApiController{}
	app.Get("document/:id", controller.documentData)
}

// @Summary Проверка документа
// @Tags Публичные
// @Description Данные документа для страницы проверки по qr коду, без авторизации
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.DocumentPublicView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/public/document/{id} [get]
func (c *documentApiController) documentData(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.DocumentData(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения данных документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
