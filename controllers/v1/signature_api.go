package apiv1

import (
	"esign-backend/controllers"
	signaturehandler "esign-backend/lib/signature"
	apimodels "esign-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type signatureApiController struct {
	controllers.BaseAPIController
}

// InitSignatureApiRouters router - группа /signatures
func InitSignatureApiRouters(router fiber.Router) {
	controller := signatureApiController{}
	router.Get("", controller.list)
	router.Post("", controller.upload)
	router.Get(":id/image", controller.image)
}

// @Summary Загрузка подписи
// @Tags Подписи
// @Description Загрузка изображения подписи (png, jpg)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file	true	"Изображение подписи"
// @Success 200 {object} apimodels.Response{data=signatureapimodels.SignatureView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/signatures [post]
func (c *signatureApiController) upload(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан файл подписи"))
	}
	file, err := c.FormFile(header)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	resp, err := signaturehandler.Instance.Upload(ctx.UserContext(), c.GetActor(ctx), file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки подписи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список подписей
// @Tags Подписи
// @Description Подписи текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]signatureapimodels.SignatureView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/signatures [get]
func (c *signatureApiController) list(ctx *fiber.Ctx) error {
	list, err := signaturehandler.Instance.List(c.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка подписей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Изображение подписи
// @Tags Подписи
// @Description Изображение подписи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/signatures/{id}/image [get]
func (c *signatureApiController) image(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, contentType, err := signaturehandler.Instance.Image(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения изображения подписи")
	}
	return c.SendFile(ctx, body, contentType, "")
}
