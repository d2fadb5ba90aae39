package filestorage

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

type s3Impl struct {
	s3client   *minio.Client
	bucketName string
}

// NewS3 хранилище в бакете S3, бакет создается при отсутствии
func NewS3(ctx context.Context, s3client *minio.Client, bucketName string) (Provider, error) {
	i := &s3Impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
	if err := i.makeBucket(ctx); err != nil {
		return nil, errors.Wrap(err, "ошибка создания бакета")
	}
	return i, nil
}

func (i s3Impl) makeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
}

func (i s3Impl) Put(ctx context.Context, key string, data []byte, contentType string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = i.s3client.PutObject(ctx, i.bucketName, cleaned, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки файла в S3")
	}
	return nil
}

func (i s3Impl) Get(ctx context.Context, key string) ([]byte, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	obj, err := i.s3client.GetObject(ctx, i.bucketName, cleaned, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения файла из S3")
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "ошибка чтения файла из S3")
	}
	return data, nil
}

func (i s3Impl) Exists(ctx context.Context, key string) (bool, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return false, err
	}
	_, err = i.s3client.StatObject(ctx, i.bucketName, cleaned, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (i s3Impl) Delete(ctx context.Context, key string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}
	return i.s3client.RemoveObject(ctx, i.bucketName, cleaned, minio.RemoveObjectOptions{})
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
