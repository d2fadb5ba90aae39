package db

import (
	dbmodels "esign-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Court{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Court")
	}
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.Signature{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Signature")
	}
	if err := DB.AutoMigrate(&dbmodels.Request{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Request")
	}
	if err := DB.AutoMigrate(&dbmodels.SignJob{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SignJob")
	}
	// не более одной незавершенной задачи на заявку
	err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_sign_job_active ON sign_jobs (request_id) WHERE status IN ('pending', 'running')").Error
	if err != nil {
		return errors.Wrap(err, "ошибка создания индекса idx_sign_job_active")
	}
	err = DB.Exec("CREATE INDEX IF NOT EXISTS idx_requests_data ON requests USING GIN (data jsonb_path_ops)").Error
	if err != nil {
		return errors.Wrap(err, "ошибка создания индекса idx_requests_data")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
