package signature

import (
	"context"
	"esign-backend/db"
	"esign-backend/lib/assets"
	filestorage "esign-backend/lib/file-storage"
	signaturestore "esign-backend/lib/signature/store"
	initchecker "esign-backend/lib/utils/init-checker"
	"esign-backend/models"
	signatureapimodels "esign-backend/models/api/signature"
	dbmodels "esign-backend/models/db"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const maxImageSize = 5 * 1024 * 1024

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

type Provider interface {
	// Upload сохраняет изображение подписи текущего пользователя
	Upload(ctx context.Context, actor models.Actor, file models.File) (signatureapimodels.SignatureView, error)
	List(actor models.Actor) ([]signatureapimodels.SignatureView, error)
	Image(ctx context.Context, actor models.Actor, id string) (body []byte, contentType string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(signaturestore.NewInstance(db.DB), filestorage.Instance, assets.Instance)
}

func NewInstance(store signaturestore.Provider, storage filestorage.Provider, assetsProvider assets.Provider) Provider {
	initchecker.CheckInit(
		"store", store,
		"storage", storage,
		"assets", assetsProvider,
	)
	return impl{
		store:   store,
		storage: storage,
		assets:  assetsProvider,
	}
}

type impl struct {
	store   signaturestore.Provider
	storage filestorage.Provider
	assets  assets.Provider
}

func (i impl) Upload(ctx context.Context, actor models.Actor, file models.File) (signatureapimodels.SignatureView, error) {
	if len(file.Body) == 0 {
		return signatureapimodels.SignatureView{}, models.Validation("файл подписи не передан")
	}
	if len(file.Body) > maxImageSize {
		return signatureapimodels.SignatureView{}, models.Validation("размер файла подписи превышает 5 Мб")
	}
	contentType := http.DetectContentType(file.Body)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return signatureapimodels.SignatureView{}, models.Validation("подпись должна быть изображением png или jpg")
	}
	fileName := strings.TrimSpace(file.FileName)
	if fileName == "" {
		fileName = "signature" + ext
	}
	if path.Ext(fileName) == "" {
		fileName += ext
	}
	rec := dbmodels.Signature{
		UserID:      actor.UserID,
		FileName:    fileName,
		ContentType: contentType,
	}
	rec.ID = uuid.New().String()
	rec.Url = filestorage.SignatureKey(rec.ID, fileName)

	logger := log.WithField("user_id", actor.UserID).WithField("signature_id", rec.ID)
	if err := i.storage.Put(ctx, rec.Url, file.Body, contentType); err != nil {
		return signatureapimodels.SignatureView{}, errors.Wrap(err, "ошибка сохранения изображения подписи")
	}
	id, err := i.store.Create(rec)
	if err != nil {
		if delErr := i.storage.Delete(ctx, rec.Url); delErr != nil {
			logger.WithError(delErr).Warn("ошибка удаления изображения подписи")
		}
		return signatureapimodels.SignatureView{}, errors.Wrap(err, "ошибка добавления подписи")
	}
	rec.ID = id
	logger.Info("подпись загружена")
	return signatureapimodels.SignatureConvert(rec), nil
}

func (i impl) List(actor models.Actor) ([]signatureapimodels.SignatureView, error) {
	list, err := i.store.List(actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка подписей")
	}
	result := make([]signatureapimodels.SignatureView, 0, len(list))
	for _, rec := range list {
		result = append(result, signatureapimodels.SignatureConvert(rec))
	}
	return result, nil
}

func (i impl) Image(ctx context.Context, actor models.Actor, id string) (body []byte, contentType string, err error) {
	rec, err := i.store.GetByIDAndUser(id, actor.UserID)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения подписи")
	}
	if rec == nil {
		return nil, "", models.NotFound("подпись не найдена")
	}
	body, err = i.assets.Signature(ctx, *rec)
	if err != nil {
		return nil, "", err
	}
	contentType = rec.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return body, contentType, nil
}
