package assets

import (
	"context"
	"esign-backend/config"
	filestorage "esign-backend/lib/file-storage"
	"esign-backend/lib/utils/lock"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

const qrLockWait = 30 * time.Second

type Provider interface {
	// EnsureQRCode возвращает qr код документа, генерируя его при первом обращении
	EnsureQRCode(ctx context.Context, requestID, docID string) (key string, data []byte, err error)
	// Signature содержимое изображения подписи
	Signature(ctx context.Context, sig dbmodels.Signature) ([]byte, error)
	VerificationURL(docID string) string
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(filestorage.Instance, config.Conf.App.FrontendURL, config.Conf.Signing.QRSize)
}

func NewInstance(storage filestorage.Provider, frontendURL string, qrSize int) Provider {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &impl{
		storage:     storage,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		qrSize:      qrSize,
	}
}

type impl struct {
	storage     filestorage.Provider
	frontendURL string
	qrSize      int
}

func (i impl) VerificationURL(docID string) string {
	return i.frontendURL + "/document/" + docID
}

func (i impl) EnsureQRCode(ctx context.Context, requestID, docID string) (key string, data []byte, err error) {
	key = filestorage.QRCodeKey(requestID, docID)
	logger := log.
		WithField("request_id", requestID).
		WithField("document_id", docID)
	locked, err := lock.WithDelay(ctx, key, qrLockWait, func() error {
		exists, err := i.storage.Exists(ctx, key)
		if err != nil {
			return errors.Wrap(err, "ошибка проверки qr кода")
		}
		if exists {
			data, err = i.storage.Get(ctx, key)
			if err == nil {
				return nil
			}
			if !errors.Is(err, filestorage.ErrNotFound) {
				return errors.Wrap(err, "ошибка чтения qr кода")
			}
		}
		data, err = qrcode.Encode(i.VerificationURL(docID), qrcode.Medium, i.qrSize)
		if err != nil {
			return errors.Wrap(err, "ошибка генерации qr кода")
		}
		if err = i.storage.Put(ctx, key, data, "image/png"); err != nil {
			return errors.Wrap(err, "ошибка сохранения qr кода")
		}
		logger.Debug("qr код сгенерирован")
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if !locked {
		return "", nil, errors.Errorf("не удалось получить блокировку qr кода %s", key)
	}
	return key, data, nil
}

func (i impl) Signature(ctx context.Context, sig dbmodels.Signature) ([]byte, error) {
	searched := signatureCandidates(sig.Url)
	for _, key := range searched {
		data, err := i.storage.Get(ctx, key)
		if err == nil && len(data) > 0 {
			return data, nil
		}
		if err != nil && !errors.Is(err, filestorage.ErrNotFound) {
			log.WithError(err).WithField("key", key).Warn("ошибка чтения изображения подписи")
		}
	}
	return nil, models.AssetNotFound(models.TagSignature, searched...)
}

func signatureCandidates(url string) []string {
	result := make([]string, 0, 2)
	if url != "" {
		result = append(result, url)
		fallback := path.Join("signatures", path.Base(strings.ReplaceAll(url, "\\", "/")))
		if fallback != url {
			result = append(result, fallback)
		}
	}
	return result
}
