package initializers

import (
	"context"
	"esign-backend/config"
	"esign-backend/db"
	filestorage "esign-backend/lib/file-storage"
	"esign-backend/lib/smtp"
	s3client "esign-backend/s3"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DBParams параметры подключения к БД из настроек
func DBParams(migrate bool) db.Params {
	conf := config.Conf.Database
	return db.Params{
		Host:         conf.Host,
		Port:         conf.Port,
		Name:         conf.Name,
		User:         conf.User,
		Password:     conf.Password,
		MaxOpenConns: conf.MaxOpenConns,
		Debug:        *conf.DebugMode,
		Migrate:      migrate,
	}
}

func initDB() error {
	if err := db.Connect(DBParams(*config.Conf.Database.MigrateOnStart)); err != nil {
		return err
	}
	db.InitPreload()
	return nil
}

// хранилище файлов: для s3 сначала поднимается клиент minio
func initStorage(ctx context.Context) error {
	if config.Conf.Storage.Type == filestorage.TypeS3 {
		client, err := s3client.Connect(ctx, config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID,
			config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
		if err != nil {
			return err
		}
		s3client.Client = client
		log.WithField("s3_endpoint", config.Conf.S3.Endpoint).Info("S3 клиент инициализирован")
	}
	if err := filestorage.NewHandler(ctx, s3client.Client); err != nil {
		return err
	}
	log.WithField("storage_type", config.Conf.Storage.Type).Info("хранилище файлов инициализировано")
	return nil
}

func initSmtp() error {
	conf := config.Conf.Smtp
	if err := smtp.Connect(conf.From, conf.User, conf.Password, conf.Host, conf.Port, *conf.TLSEnabled); err != nil {
		return errors.Wrap(err, "ошибка инициализации smtp")
	}
	return nil
}
