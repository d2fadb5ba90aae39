package apiv1

import (
	"encoding/json"
	"esign-backend/controllers"
	requesthandler "esign-backend/lib/request"
	"esign-backend/lib/signing"
	"esign-backend/models"
	apimodels "esign-backend/models/api"
	requestapimodels "esign-backend/models/api/request"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type requestApiController struct {
	controllers.BaseAPIController
}

// InitRequestApiRouters router - группа /requests
func InitRequestApiRouters(router fiber.Router) {
	controller := requestApiController{}
	router.Get("", controller.list)
	router.Post("", controller.create)
	router.Route(":id", func(idRoute fiber.Router) {
		idRoute.Get("", controller.get)
		idRoute.Delete("", controller.delete)
		idRoute.Post("clone", controller.clone)
		idRoute.Get("template_preview", controller.templatePreview)
		idRoute.Get("protocol", controller.protocol)
		idRoute.Put("send", controller.send)         // отправить на подписание
		idRoute.Put("reject", controller.reject)     // отклонить
		idRoute.Put("delegate", controller.delegate) // вернуть автору
		idRoute.Post("sign", controller.sign)        // подписать
		idRoute.Route("documents", func(docRoute fiber.Router) {
			docRoute.Post("", controller.uploadDocuments)
			docRoute.Post("import", controller.importDocuments)
			docRoute.Get("export", controller.exportDocuments)
			docRoute.Delete(":docId", controller.deleteDocument)
			docRoute.Get(":docId/preview", controller.previewDocument)
			docRoute.Get(":docId/signed", controller.signedDocument)
			docRoute.Put(":docId/reject", controller.rejectDocument)
		})
	})
}

// @Summary Создание
// @Tags Заявка
// @Description Создание заявки по шаблону docx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   title				formData	string	true	"Название"
// @Param   description			formData	string	false	"Описание"
// @Param   template			formData	file	true	"Шаблон docx"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests [post]
func (c *requestApiController) create(ctx *fiber.Ctx) error {
	payload := requestapimodels.RequestData{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	header, err := ctx.FormFile("template")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан шаблон"))
	}
	template, err := c.FormFile(header)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения шаблона")
	}
	resp, err := requesthandler.Instance.Create(ctx.UserContext(), c.GetActor(ctx), payload, template)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список
// @Tags Заявка
// @Description Список заявок, исполнитель видит свои заявки, подписант назначенные ему
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   search				query		string	false	"Поиск по названию"
// @Param   page				query		int		false	"Страница (1,2,3..)"
// @Param   limit				query		int		false	"Записей на странице"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests [get]
func (c *requestApiController) list(ctx *fiber.Ctx) error {
	pagination := apimodels.Pagination{
		Page:  ctx.QueryInt("page"),
		Limit: ctx.QueryInt("limit"),
	}
	list, rowCount, err := requesthandler.Instance.List(c.GetActor(ctx), ctx.Query("search"), pagination)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение по ИД
// @Tags Заявка
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id} [get]
func (c *requestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.Get(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление
// @Tags Заявка
// @Description Удаление неподписанной заявки автором
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id} [delete]
func (c *requestApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = requesthandler.Instance.Delete(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Копирование
// @Tags Заявка
// @Description Копия заявки без документов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/clone [post]
func (c *requestApiController) clone(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.Clone(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка копирования заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Предпросмотр шаблона
// @Tags Заявка
// @Description Шаблон в pdf, вместо значений имена меток
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/template_preview [get]
func (c *requestApiController) templatePreview(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := requesthandler.Instance.TemplatePreview(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования предпросмотра")
	}
	return c.SendFile(ctx, body, contentTypePDF, "")
}

// @Summary Протокол подписания
// @Tags Заявка
// @Description Протокол подписания в pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/protocol [get]
func (c *requestApiController) protocol(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := requesthandler.Instance.Protocol(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования протокола")
	}
	return c.SendFile(ctx, body, contentTypePDF, fmt.Sprintf("protocol_%s.pdf", id))
}

// @Summary Отправка на подписание
// @Tags Заявка
// @Description Отправка на подписание
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 requestapimodels.SendForSignature	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/send [put]
func (c *requestApiController) send(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.SendForSignature
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.SendForSignature(c.GetActor(ctx), id, payload.OfficerID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки на подписание")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отклонение
// @Tags Заявка
// @Description Отклонение заявки подписантом, все документы отклоняются
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 requestapimodels.Reject	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/reject [put]
func (c *requestApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.Reject
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.Reject(c.GetActor(ctx), id, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Делегирование
// @Tags Заявка
// @Description Возврат заявки автору для доработки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/delegate [put]
func (c *requestApiController) delegate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.Delegate(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка делегирования заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Подписание
// @Tags Подписание
// @Description Постановка заявки в очередь подписания, результат приходит событиями websocket
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 requestapimodels.Sign	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.SignAccepted}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/sign [post]
func (c *requestApiController) sign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.Sign
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	jobID, err := signing.Instance.Submit(c.GetActor(ctx), id, payload.SignatureID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка постановки заявки на подписание")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(requestapimodels.SignAccepted{JobID: jobID}))
}

// @Summary Загрузка документов
// @Tags Документы
// @Description Добавление документов, data - json массив DocumentEntry, files - файлы docx (url записи = имя файла).
// @Description Записи без файла формируются по шаблону
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   data				formData	string	false	"[]requestapimodels.DocumentEntry"
// @Param   files				formData	file	false	"Файлы документов"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/documents [post]
func (c *requestApiController) uploadDocuments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var entries []requestapimodels.DocumentEntry
	if data := ctx.FormValue("data"); data != "" {
		if err = json.Unmarshal([]byte(data), &entries); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректные данные документов"))
		}
	}
	var files []models.File
	if form, formErr := ctx.MultipartForm(); formErr == nil {
		for _, header := range form.File["files"] {
			file, err := c.FormFile(header)
			if err != nil {
				return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
			}
			files = append(files, file)
		}
	}
	resp, err := requesthandler.Instance.UploadDocuments(ctx.UserContext(), c.GetActor(ctx), id, entries, files)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Импорт документов
// @Tags Документы
// @Description Импорт данных документов из xlsx, первая строка - имена переменных шаблона
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   file				formData	file	true	"Файл xlsx"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/documents/import [post]
func (c *requestApiController) importDocuments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан файл"))
	}
	file, err := c.FormFile(header)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	resp, err := requesthandler.Instance.ImportDocuments(ctx.UserContext(), c.GetActor(ctx), id, file.Body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка импорта документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выгрузка документов
// @Tags Документы
// @Description Данные документов в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/documents/export [get]
func (c *requestApiController) exportDocuments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buf, err := requesthandler.Instance.ExportDocuments(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки документов")
	}
	return c.SendFile(ctx, buf.Bytes(), contentTypeXlsx, fmt.Sprintf("documents_%s.xlsx", id))
}

// @Summary Удаление документа
// @Tags Документы
// @Description Удаление документа из неподписанной заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   docId          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/documents/{docId} [delete]
func (c *requestApiController) deleteDocument(ctx *fiber.Ctx) error {
	id, docID, err := c.getIDs(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = requesthandler.Instance.DeleteDocument(c.GetActor(ctx), id, docID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Предпросмотр документа
// @Tags Документы
// @Description Документ в pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   docId          		path    string  				    	true         "document ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/documents/{docId}/preview [get]
func (c *requestApiController) previewDocument(ctx *fiber.Ctx) error {
	id, docID, err := c.getIDs(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := requesthandler.Instance.PreviewDocument(ctx.UserContext(), c.GetActor(ctx), id, docID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования предпросмотра")
	}
	return c.SendFile(ctx, body, contentTypePDF, "")
}

// @Summary Подписанный документ
// @Tags Документы
// @Description Скачивание подписанного документа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   docId          		path    string  				    	true         "document ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/documents/{docId}/signed [get]
func (c *requestApiController) signedDocument(ctx *fiber.Ctx) error {
	id, docID, err := c.getIDs(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, fileName, err := requesthandler.Instance.SignedDocument(ctx.UserContext(), c.GetActor(ctx), id, docID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения подписанного документа")
	}
	return c.SendFile(ctx, body, contentTypePDF, fileName)
}

// @Summary Отклонение документа
// @Tags Документы
// @Description Отклонение одного документа подписантом
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   docId          		path    string  				    	true         "document ID"
// @Param	body body	 requestapimodels.Reject	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/documents/{docId}/reject [put]
func (c *requestApiController) rejectDocument(ctx *fiber.Ctx) error {
	id, docID, err := c.getIDs(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.Reject
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.RejectDocument(c.GetActor(ctx), id, docID, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func (c *requestApiController) getIDs(ctx *fiber.Ctx) (id, docID string, err error) {
	id, err = c.GetID(ctx)
	if err != nil {
		return "", "", err
	}
	docID, err = c.GetIDByKey(ctx, "docId")
	if err != nil {
		return "", "", err
	}
	return id, docID, nil
}
