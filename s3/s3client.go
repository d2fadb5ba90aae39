package s3client

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

var Client *minio.Client

const pingTimeout = 10 * time.Second

// Connect клиент S3, соединение проверяется запросом списка бакетов
func Connect(ctx context.Context, endpoint, accessKeyID, secretAccessKey string, useSSL bool) (*minio.Client, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка инициализации клиента S3")
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err = minioClient.ListBuckets(pingCtx); err != nil {
		return nil, errors.Wrap(err, "S3 соединение не удалось, ListBuckets вернул ошибку")
	}
	return minioClient, nil
}
