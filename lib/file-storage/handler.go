package filestorage

import (
	"context"
	"esign-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

var Instance Provider

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// NewHandler инициализирует хранилище согласно настройке Storage.Type
func NewHandler(ctx context.Context, s3client *minio.Client) error {
	switch config.Conf.Storage.Type {
	case TypeS3:
		if s3client == nil {
			return errors.New("клиент S3 не инициализирован")
		}
		instance, err := NewS3(ctx, s3client, config.Conf.S3.BucketName)
		if err != nil {
			return err
		}
		Instance = instance
	case TypeLocal, "":
		instance, err := NewLocal(config.Conf.Storage.Root)
		if err != nil {
			return err
		}
		Instance = instance
	default:
		return errors.Errorf("неизвестный тип хранилища: %s", config.Conf.Storage.Type)
	}
	return nil
}
