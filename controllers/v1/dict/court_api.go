package dict

import (
	"esign-backend/controllers"
	courtprovider "esign-backend/lib/dicts/court"
	apimodels "esign-backend/models/api"
	dictapimodels "esign-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type courtDictApiController struct {
	controllers.BaseAPIController
}

func InitCourtDictApiRouters(app fiber.Router) {
	controller := courtDictApiController{}
	app.Route("court", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get(":id", controller.get)
	})
}

// @Summary Получение по ИД
// @Tags Справочник. Суды
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.CourtView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/court/{id} [get]
func (c *courtDictApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := courtprovider.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения данных по суду")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список
// @Tags Справочник. Суды
// @Description Поиск по названию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   name				query		string	false	"Название"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.CourtView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/court [get]
func (c *courtDictApiController) list(ctx *fiber.Ctx) error {
	list, err := courtprovider.Instance.List(ctx.Query("name"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка судов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Добавление
// @Tags Справочник. Суды
// @Description Добавление
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.CourtData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/court [post]
func (c *courtDictApiController) create(ctx *fiber.Ctx) error {
	var payload dictapimodels.CourtData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := courtprovider.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления суда")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}
