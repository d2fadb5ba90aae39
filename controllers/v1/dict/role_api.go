package dict

import (
	apimodels "esign-backend/models/api"
	dictapimodels "esign-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

func InitRoleDictApiRouters(app fiber.Router) {
	app.Get("role", roleList)
}

// @Summary Список ролей
// @Tags Справочник. Роли
// @Description Список ролей пользователей
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.RoleView}
// @Failure 403
// @router /api/v1/dict/role [get]
func roleList(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dictapimodels.GetRoles()))
}
