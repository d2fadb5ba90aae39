package apiv1

import (
	"esign-backend/controllers"
	"esign-backend/lib/rbac"
	"esign-backend/lib/users"
	"esign-backend/models"
	apimodels "esign-backend/models/api"
	userapimodels "esign-backend/models/api/user"

	"github.com/gofiber/fiber/v2"
)

type userApiController struct {
	controllers.BaseAPIController
}

type statusPayload struct {
	Status models.UserStatus `json:"status"`
}

// InitUserApiRouters router - группа /users
func InitUserApiRouters(router fiber.Router) {
	controller := userApiController{}
	router.Get("", controller.list)
	router.Post("", controller.create)
	router.Put(":id/status", controller.setStatus)
}

// InitProfileApiRouters router - группа /me
func InitProfileApiRouters(router fiber.Router) {
	controller := userApiController{}
	router.Get("permissions", controller.permissions)
}

// @Summary Права текущего пользователя
// @Tags Пользователи
// @Description Права по модулям для роли текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=map[string][]string}
// @Failure 403
// @router /api/v1/me/permissions [get]
func (c *userApiController) permissions(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rbac.Instance.GetPermissions(c.GetActor(ctx).Role)))
}

// @Summary Список пользователей
// @Tags Пользователи
// @Description Список пользователей, role=officer - подписанты для отправки заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   role				query		string	false	"Роль"
// @Success 200 {object} apimodels.Response{data=[]userapimodels.UserView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [get]
func (c *userApiController) list(ctx *fiber.Ctx) error {
	list, err := users.Instance.List(models.UserRole(ctx.Query("role")))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Добавление пользователя
// @Tags Пользователи
// @Description Добавление пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.UserData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *userApiController) create(ctx *fiber.Ctx) error {
	var payload userapimodels.UserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := users.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Статус пользователя
// @Tags Пользователи
// @Description Включение и отключение пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 statusPayload	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id}/status [put]
func (c *userApiController) setStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload statusPayload
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = users.Instance.SetStatus(id, payload.Status); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения статуса пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
