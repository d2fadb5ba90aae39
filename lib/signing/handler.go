package signing

import (
	"esign-backend/db"
	courtstore "esign-backend/lib/dicts/court/store"
	"esign-backend/lib/events"
	requeststore "esign-backend/lib/request/store"
	signaturestore "esign-backend/lib/signature/store"
	signqueue "esign-backend/lib/signing/queue"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// Submit переводит заявку в inProcess и ставит задачу подписания в очередь, не дожидаясь обработки
	Submit(actor models.Actor, requestID, signatureID string) (jobID string, err error)
	GetJob(id string) (*dbmodels.SignJob, error)
	// CancelJob отменяет ожидающую задачу и возвращает заявку на подписание
	CancelJob(id string) error
}

var Instance Provider

// TxRunner выполняет fn в одной транзакции хранилища заявок и очереди
type TxRunner func(fn func(requests requeststore.Provider, jobs signqueue.Provider) error) error

// GormTx транзакция postgres, уведомление pg_notify доставляется после commit
func GormTx(DB *gorm.DB) TxRunner {
	return func(fn func(requests requeststore.Provider, jobs signqueue.Provider) error) error {
		return DB.Transaction(func(tx *gorm.DB) error {
			return fn(requeststore.NewInstance(tx), signqueue.NewInstance(tx))
		})
	}
}

func NewHandler(publisher events.Publisher) {
	Instance = NewInstance(
		requeststore.NewInstance(db.DB),
		signqueue.NewInstance(db.DB),
		signaturestore.NewInstance(db.DB),
		courtstore.NewInstance(db.DB),
		GormTx(db.DB),
		publisher)
}

func NewInstance(requests requeststore.Provider, jobs signqueue.Provider, signatures signaturestore.Provider,
	courts courtstore.Provider, tx TxRunner, publisher events.Publisher) Provider {
	return &impl{
		requests:   requests,
		jobs:       jobs,
		signatures: signatures,
		courts:     courts,
		tx:         tx,
		publisher:  publisher,
	}
}

type impl struct {
	requests   requeststore.Provider
	jobs       signqueue.Provider
	signatures signaturestore.Provider
	courts     courtstore.Provider
	tx         TxRunner
	publisher  events.Publisher
}

func (i impl) Submit(actor models.Actor, requestID, signatureID string) (jobID string, err error) {
	logger := log.
		WithField("request_id", requestID).
		WithField("user_id", actor.UserID)
	rec, err := i.requests.GetByID(requestID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return "", models.NotFound("заявка не найдена")
	}
	if !rec.IsAssignedTo(actor.UserID) {
		return "", models.PreconditionFailed("заявка назначена другому подписанту")
	}
	if !rec.SignStatus.Allow(models.SignActionSign) {
		return "", models.UnexpectedSignStatus(models.SignActionSign, rec.SignStatus)
	}
	if len(rec.Data) == 0 {
		return "", models.PreconditionFailed("в заявке нет документов")
	}
	if rec.CountByStatus(models.DocSignStatusUnsigned) == 0 {
		return "", models.PreconditionFailed("в заявке нет документов для подписания")
	}
	if rec.Url == "" {
		return "", models.PreconditionFailed("у заявки не загружен шаблон")
	}
	if signatureID == "" {
		return "", models.PreconditionFailed("не указана подпись")
	}
	signature, err := i.signatures.GetByIDAndUser(signatureID, actor.UserID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения подписи")
	}
	if signature == nil {
		return "", models.PreconditionFailed("подпись не найдена")
	}
	if actor.CourtID == "" {
		return "", models.PreconditionFailed("суд не найден")
	}
	court, err := i.courts.GetByID(actor.CourtID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения суда")
	}
	if court == nil {
		return "", models.PreconditionFailed("суд не найден")
	}
	if err = checkRequiredVariables(*rec); err != nil {
		return "", err
	}

	err = i.tx(func(requests requeststore.Provider, jobs signqueue.Provider) error {
		ok, err := requests.ConditionalUpdate(rec.ID, requeststore.Guard{
			Statuses:   models.SignActionSign.Sources(),
			AssignedTo: actor.UserID,
		}, map[string]interface{}{
			"sign_status": models.SignStatusInProcess,
			"updated_by":  actor.UserID,
		})
		if err != nil {
			return models.PersistenceFailed(err, "ошибка обновления статуса заявки")
		}
		if !ok {
			// заявку успели изменить между чтением и обновлением
			current := rec.SignStatus
			if fresh, _ := requests.GetByID(rec.ID); fresh != nil {
				current = fresh.SignStatus
			}
			return models.UnexpectedSignStatus(models.SignActionSign, current)
		}
		jobID, err = jobs.Enqueue(models.SignJobPayload{
			RequestID:   rec.ID,
			UserID:      actor.UserID,
			SignatureID: signature.ID,
			CourtID:     court.ID,
		})
		if err != nil {
			return models.QueueUnavailable(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.WithField("job_id", jobID).Info("задача подписания поставлена в очередь")
	events.StatusUpdate(i.publisher, rec.ID, models.SignStatusInProcess)
	return jobID, nil
}

func (i impl) GetJob(id string) (*dbmodels.SignJob, error) {
	rec, err := i.jobs.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения задачи")
	}
	if rec == nil {
		return nil, models.NotFound("задача не найдена")
	}
	return rec, nil
}

func (i impl) CancelJob(id string) error {
	job, err := i.GetJob(id)
	if err != nil {
		return err
	}
	ok, err := i.jobs.Cancel(id)
	if err != nil {
		return errors.Wrap(err, "ошибка отмены задачи")
	}
	if !ok {
		return models.PreconditionFailed("задачу можно отменить только до начала обработки, статус: %s", job.Status)
	}
	log.WithField("job_id", id).WithField("request_id", job.RequestID).Info("задача подписания отменена")
	_, err = revertRequest(i.requests, i.publisher, job.RequestID, models.SystemUser)
	return err
}

// checkRequiredVariables обязательные метки заполнены у всех неподписанных документов
func checkRequiredVariables(rec dbmodels.Request) error {
	for _, doc := range rec.Data {
		if doc.SignStatus != models.DocSignStatusUnsigned {
			continue
		}
		missing := make([]string, 0)
		for _, variable := range rec.TemplateVariables {
			if !variable.Required || models.IsServiceTag(variable.Name) {
				continue
			}
			value, ok := doc.Data.Get(variable.Name)
			if !ok || value.IsEmpty() {
				missing = append(missing, variable.Name)
			}
		}
		if len(missing) > 0 {
			return models.Validation("документ %q: не заполнены обязательные поля: %s", doc.Name(), strings.Join(missing, ", "))
		}
	}
	return nil
}

// revertRequest возвращает заявку из inProcess на подписание
func revertRequest(requests requeststore.Provider, publisher events.Publisher, requestID, userID string) (bool, error) {
	ok, err := requests.ConditionalUpdate(requestID, requeststore.Guard{
		Statuses: models.SignActionRevert.Sources(),
	}, map[string]interface{}{
		"sign_status": models.SignActionRevert.Target(),
		"updated_by":  userID,
	})
	if err != nil {
		return false, models.PersistenceFailed(err, "ошибка возврата заявки на подписание")
	}
	if ok {
		log.WithField("request_id", requestID).Warn("заявка возвращена на подписание")
		events.StatusUpdate(publisher, requestID, models.SignActionRevert.Target())
	}
	return ok, nil
}
