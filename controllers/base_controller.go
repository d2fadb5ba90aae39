package controllers

import (
	authutils "esign-backend/lib/utils/auth-utils"
	"esign-backend/models"
	apimodels "esign-backend/models/api"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := strings.TrimSpace(ctx.Params(key))
	if id == "" {
		return "", errors.Errorf("не указан параметр %s", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetActor(ctx *fiber.Ctx) models.Actor {
	return authutils.ActorFromClaims(authutils.GetClaims(ctx))
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if userID := c.GetActor(ctx).UserID; userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	if requestID := ctx.GetRespHeader(fiber.HeaderXRequestID); requestID != "" {
		logger = logger.WithField("http_request_id", requestID)
	}
	return logger
}

// SendError ответ по виду ошибки, внутренние ошибки логируются и скрываются за message
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, message string) error {
	kind := models.KindOf(err)
	status := fiber.StatusInternalServerError
	switch kind {
	case models.ErrPreconditionFailed:
		status = fiber.StatusConflict
	case models.ErrValidation:
		status = fiber.StatusBadRequest
	case models.ErrNotFound, models.ErrAssetNotFound:
		status = fiber.StatusNotFound
	case models.ErrQueueUnavailable:
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError || kind == models.ErrQueueUnavailable {
		logger.WithError(err).Error(message)
		return ctx.Status(status).JSON(apimodels.NewErrorWithCode(message, string(kind)))
	}
	logger.WithError(err).Warn(message)
	return ctx.Status(status).JSON(apimodels.NewErrorWithCode(err.Error(), string(kind)))
}

// FormFile содержимое файла из multipart формы
func (c *BaseAPIController) FormFile(header *multipart.FileHeader) (models.File, error) {
	file, err := header.Open()
	if err != nil {
		return models.File{}, errors.Wrap(err, "ошибка открытия файла")
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return models.File{}, errors.Wrap(err, "ошибка чтения файла")
	}
	return models.File{
		FileName:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Body:        body,
	}, nil
}

func (c *BaseAPIController) SendFile(ctx *fiber.Ctx, body []byte, contentType, fileName string) error {
	if fileName != "" {
		ctx.Attachment(fileName)
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(fiber.StatusOK).Send(body)
}
