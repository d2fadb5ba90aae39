package signqueue

import (
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WakeChannel канал NOTIFY о появлении новых задач
const WakeChannel = "sign_jobs"

type Provider interface {
	Enqueue(payload models.SignJobPayload) (id string, err error)
	// Claim забирает самую старую ожидающую задачу, nil если задач нет
	Claim(worker string, lease time.Duration) (*dbmodels.SignJob, error)
	Touch(id string, lease time.Duration) error
	Finish(id string, status models.JobStatus, errText string) error
	// Cancel отменяет задачу, пока она не взята в работу
	Cancel(id string) (bool, error)
	GetByID(id string) (*dbmodels.SignJob, error)
	HasOutstanding(requestID string) (bool, error)
	// ExpireLeases переводит в failed задачи с истекшей арендой
	ExpireLeases(now time.Time) ([]dbmodels.SignJob, error)
	List(status models.JobStatus, limit int) ([]dbmodels.SignJob, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Enqueue(payload models.SignJobPayload) (id string, err error) {
	rec := dbmodels.SignJob{
		RequestID:   payload.RequestID,
		UserID:      payload.UserID,
		SignatureID: payload.SignatureID,
		CourtID:     payload.CourtID,
		Status:      models.JobStatusPending,
	}
	if err = i.db.Create(&rec).Error; err != nil {
		return "", errors.Wrap(err, "ошибка добавления задачи подписания")
	}
	// внутри транзакции уведомление будет доставлено после commit
	if err = i.db.Exec("SELECT pg_notify(?, ?)", WakeChannel, rec.ID).Error; err != nil {
		return "", errors.Wrap(err, "ошибка уведомления о задаче подписания")
	}
	return rec.ID, nil
}

func (i impl) Claim(worker string, lease time.Duration) (*dbmodels.SignJob, error) {
	var result *dbmodels.SignJob
	err := i.db.Transaction(func(tx *gorm.DB) error {
		rec := dbmodels.SignJob{}
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", models.JobStatusPending).
			Order("created_at").
			First(&rec).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		now := time.Now()
		leaseUntil := now.Add(lease)
		err = tx.Model(&dbmodels.SignJob{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"status":      models.JobStatusRunning,
				"worker":      worker,
				"attempts":    gorm.Expr("attempts + 1"),
				"started_at":  now,
				"lease_until": leaseUntil,
			}).
			Error
		if err != nil {
			return err
		}
		rec.Status = models.JobStatusRunning
		rec.Worker = worker
		rec.Attempts++
		rec.StartedAt = &now
		rec.LeaseUntil = &leaseUntil
		result = &rec
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения задачи подписания")
	}
	return result, nil
}

func (i impl) Touch(id string, lease time.Duration) error {
	return i.db.Model(&dbmodels.SignJob{}).
		Where("id = ?", id).
		Where("status = ?", models.JobStatusRunning).
		Update("lease_until", time.Now().Add(lease)).
		Error
}

// Finish завершает задачу, только пока она в работе: задача с истекшей арендой уже закрыта сверкой
func (i impl) Finish(id string, status models.JobStatus, errText string) error {
	return i.db.Model(&dbmodels.SignJob{}).
		Where("id = ?", id).
		Where("status = ?", models.JobStatusRunning).
		Updates(map[string]interface{}{
			"status":      status,
			"error":       errText,
			"finished_at": time.Now(),
			"lease_until": nil,
		}).
		Error
}

func (i impl) Cancel(id string) (bool, error) {
	tx := i.db.Model(&dbmodels.SignJob{}).
		Where("id = ?", id).
		Where("status = ?", models.JobStatusPending).
		Updates(map[string]interface{}{
			"status":      models.JobStatusCancelled,
			"finished_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) GetByID(id string) (*dbmodels.SignJob, error) {
	rec := dbmodels.SignJob{}
	err := i.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) HasOutstanding(requestID string) (bool, error) {
	var rowCount int64
	err := i.db.Model(&dbmodels.SignJob{}).
		Where("request_id = ?", requestID).
		Where("status IN ?", []models.JobStatus{models.JobStatusPending, models.JobStatusRunning}).
		Count(&rowCount).
		Error
	if err != nil {
		return false, err
	}
	return rowCount > 0, nil
}

func (i impl) ExpireLeases(now time.Time) (list []dbmodels.SignJob, err error) {
	err = i.db.
		Model(&list).
		Clauses(clause.Returning{}).
		Where("status = ?", models.JobStatusRunning).
		Where("lease_until < ?", now).
		Updates(map[string]interface{}{
			"status":      models.JobStatusFailed,
			"error":       "истек срок аренды задачи",
			"finished_at": now,
		}).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) List(status models.JobStatus, limit int) (list []dbmodels.SignJob, err error) {
	tx := i.db.Model(&dbmodels.SignJob{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err = tx.Order("created_at desc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
