package notify

import (
	"esign-backend/config"
	"esign-backend/db"
	"esign-backend/lib/smtp"
	userstore "esign-backend/lib/users/store"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Provider уведомления автора заявки, ошибки отправки только логируются
type Provider interface {
	SigningFinished(rec dbmodels.Request, status models.SignStatus)
	Rejected(rec dbmodels.Request)
	Delegated(rec dbmodels.Request)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(userstore.NewInstance(db.DB), smtp.Instance, config.Conf.App.FrontendURL)
}

func NewInstance(users userstore.Provider, sender smtp.Provider, frontendURL string) Provider {
	return &impl{
		users:       users,
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

type impl struct {
	users       userstore.Provider
	sender      smtp.Provider
	frontendURL string
}

func (i impl) SigningFinished(rec dbmodels.Request, status models.SignStatus) {
	subject := fmt.Sprintf("заявка «%s» подписана", rec.TemplateName)
	if status == models.SignStatusSignedWithErrors {
		subject = fmt.Sprintf("заявка «%s» подписана с ошибками", rec.TemplateName)
	}
	signed := rec.CountByStatus(models.DocSignStatusSigned)
	msg := fmt.Sprintf("Статус: %s\r\nПодписано документов: %d из %d\r\n%s",
		status.ToHuman(), signed, len(rec.Data), i.requestLink(rec.ID))
	i.send(rec, subject, msg)
}

func (i impl) Rejected(rec dbmodels.Request) {
	subject := fmt.Sprintf("заявка «%s» отклонена", rec.TemplateName)
	msg := fmt.Sprintf("Причина: %s\r\n%s", rec.RejectionReason, i.requestLink(rec.ID))
	i.send(rec, subject, msg)
}

func (i impl) Delegated(rec dbmodels.Request) {
	subject := fmt.Sprintf("заявка «%s» возвращена вам", rec.TemplateName)
	i.send(rec, subject, i.requestLink(rec.ID))
}

func (i impl) requestLink(requestID string) string {
	return i.frontendURL + "/requests/" + requestID
}

func (i impl) send(rec dbmodels.Request, subject, msg string) {
	logger := log.
		WithField("request_id", rec.ID).
		WithField("user_id", rec.CreatedBy)
	if i.sender == nil || !i.sender.IsConfigured() {
		return
	}
	user, err := i.users.GetByID(rec.CreatedBy)
	if err != nil {
		logger.WithError(err).Error("ошибка получения автора заявки")
		return
	}
	if user == nil || user.Email == "" {
		logger.Warn("у автора заявки не указан email")
		return
	}
	if err = i.sender.SendEMail(user.Email, subject, msg); err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления")
	}
}
