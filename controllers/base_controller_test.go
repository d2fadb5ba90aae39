package controllers

import (
	"encoding/json"
	"esign-backend/models"
	apimodels "esign-backend/models/api"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSendError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		code        string
		wantMessage string
	}{
		{name: "недопустимый переход", err: models.UnexpectedSignStatus(models.SignActionSign, models.SignStatusInProcess), status: fiber.StatusConflict, code: "PRECONDITION_FAILED"},
		{name: "валидация", err: models.Validation("не указано название"), status: fiber.StatusBadRequest, code: "VALIDATION", wantMessage: "не указано название"},
		{name: "не найдено", err: models.NotFound("заявка не найдена"), status: fiber.StatusNotFound, code: "NOT_FOUND", wantMessage: "заявка не найдена"},
		{name: "нет ресурса", err: models.AssetNotFound("template", "templates/a.docx"), status: fiber.StatusNotFound, code: "ASSET_NOT_FOUND"},
		{name: "очередь недоступна", err: models.QueueUnavailable(errors.New("connection refused")), status: fiber.StatusServiceUnavailable, code: "QUEUE_UNAVAILABLE", wantMessage: "Ошибка"},
		{name: "внутренняя ошибка скрыта", err: errors.New("pq: password authentication failed"), status: fiber.StatusInternalServerError, code: "INTERNAL", wantMessage: "Ошибка"},
		{name: "обернутая ошибка", err: errors.Wrap(models.NotFound("документ не найден"), "контекст"), status: fiber.StatusNotFound, code: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := BaseAPIController{}
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				return c.SendError(ctx, c.GetLogger(ctx), tt.err, "Ошибка")
			})
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			require.Equal(t, tt.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			result := apimodels.Response{}
			require.NoError(t, json.Unmarshal(body, &result))
			require.Equal(t, "fail", result.Status)
			require.Equal(t, tt.code, result.Code)
			if tt.wantMessage != "" {
				require.Equal(t, tt.wantMessage, result.Message)
			}
		})
	}
}

func TestGetIDByKey(t *testing.T) {
	c := BaseAPIController{}
	app := fiber.New()
	app.Get("/requests/:id/documents/:docId?", func(ctx *fiber.Ctx) error {
		id, err := c.GetID(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		docID, err := c.GetIDByKey(ctx, "docId")
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		return ctx.SendString(id + "|" + docID)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/requests/r-1/documents/d-1", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "r-1|d-1", string(body))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/requests/r-1/documents", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
