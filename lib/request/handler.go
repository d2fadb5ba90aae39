package request

import (
	"bytes"
	"context"
	"esign-backend/config"
	"esign-backend/db"
	"esign-backend/lib/assets"
	"esign-backend/lib/converter"
	courtstore "esign-backend/lib/dicts/court/store"
	"esign-backend/lib/events"
	pdfexport "esign-backend/lib/export/pdf"
	xlsexport "esign-backend/lib/export/xls"
	filestorage "esign-backend/lib/file-storage"
	"esign-backend/lib/notify"
	requeststore "esign-backend/lib/request/store"
	templaterenderer "esign-backend/lib/template-renderer"
	userstore "esign-backend/lib/users/store"
	"esign-backend/models"
	apimodels "esign-backend/models/api"
	requestapimodels "esign-backend/models/api/request"
	dbmodels "esign-backend/models/db"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(ctx context.Context, actor models.Actor, data requestapimodels.RequestData, template models.File) (requestapimodels.RequestView, error)
	List(actor models.Actor, search string, pagination apimodels.Pagination) ([]requestapimodels.RequestView, int64, error)
	Get(actor models.Actor, id string) (requestapimodels.RequestView, error)
	Clone(actor models.Actor, id string) (requestapimodels.RequestView, error)
	Delete(actor models.Actor, id string) error
	TemplatePreview(ctx context.Context, actor models.Actor, id string) ([]byte, error)
	UploadDocuments(ctx context.Context, actor models.Actor, id string, entries []requestapimodels.DocumentEntry, files []models.File) (requestapimodels.RequestView, error)
	ImportDocuments(ctx context.Context, actor models.Actor, id string, body []byte) (requestapimodels.RequestView, error)
	ExportDocuments(actor models.Actor, id string) (*bytes.Buffer, error)
	PreviewDocument(ctx context.Context, actor models.Actor, id, docID string) ([]byte, error)
	DeleteDocument(actor models.Actor, id, docID string) error
	SendForSignature(actor models.Actor, id, officerID string) (requestapimodels.RequestView, error)
	Reject(actor models.Actor, id, reason string) (requestapimodels.RequestView, error)
	RejectDocument(actor models.Actor, id, docID, reason string) (requestapimodels.RequestView, error)
	Delegate(actor models.Actor, id string) (requestapimodels.RequestView, error)
	// DocumentData данные документа для страницы проверки по qr коду
	DocumentData(docID string) (requestapimodels.DocumentPublicView, error)
	SignedDocument(ctx context.Context, actor models.Actor, id, docID string) (body []byte, fileName string, err error)
	Protocol(ctx context.Context, actor models.Actor, id string) ([]byte, error)
}

var Instance Provider

func NewHandler(publisher events.Publisher) {
	Instance = NewInstance(Deps{
		Requests:  requeststore.NewInstance(db.DB),
		Users:     userstore.NewInstance(db.DB),
		Courts:    courtstore.NewInstance(db.DB),
		Storage:   filestorage.Instance,
		Renderer:  templaterenderer.Instance,
		Converter: converter.Instance,
		Xls:       xlsexport.Instance,
		Assets:    assets.Instance,
		Notifier:  notify.Instance,
		Publisher: publisher,
		FontDir:   config.Conf.Export.FontDir,
		FontFile:  config.Conf.Export.FontFile,
	})
}

type Deps struct {
	Requests  requeststore.Provider
	Users     userstore.Provider
	Courts    courtstore.Provider
	Storage   filestorage.Provider
	Renderer  templaterenderer.Provider
	Converter converter.Provider
	Xls       xlsexport.Provider
	Assets    assets.Provider
	Notifier  notify.Provider
	Publisher events.Publisher
	FontDir   string
	FontFile  string
}

func NewInstance(deps Deps) Provider {
	return &impl{deps: deps}
}

type impl struct {
	deps Deps
}

const docxExt = ".docx"

var errConcurrentUpdate = models.PreconditionFailed("заявка изменена другим пользователем, повторите попытку")

func (i impl) Create(ctx context.Context, actor models.Actor, data requestapimodels.RequestData, template models.File) (requestapimodels.RequestView, error) {
	if err := data.Validate(); err != nil {
		return requestapimodels.RequestView{}, models.Validation("%s", err.Error())
	}
	if !strings.EqualFold(path.Ext(template.FileName), docxExt) {
		return requestapimodels.RequestView{}, models.Validation("шаблон должен быть в формате docx")
	}
	variables, err := i.deps.Renderer.ExtractVariables(template.Body)
	if err != nil {
		return requestapimodels.RequestView{}, models.Validation("не удалось прочитать шаблон: %s", err.Error())
	}
	rec := dbmodels.Request{
		BaseModel:         dbmodels.BaseModel{ID: uuid.NewString()},
		TemplateName:      data.Title,
		Description:       data.Description,
		TemplateVariables: variables,
		SignStatus:        models.SignStatusUnsigned,
		Status:            models.RecordStatusActive,
		CreatedBy:         actor.UserID,
		UpdatedBy:         actor.UserID,
		Data:              dbmodels.Documents{},
	}
	rec.Url = filestorage.TemplateKey(rec.ID, template.FileName)
	if err = i.deps.Storage.Put(ctx, rec.Url, template.Body, template.ContentType); err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка сохранения шаблона")
	}
	id, err := i.deps.Requests.Create(rec)
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка создания заявки")
	}
	log.WithField("request_id", id).WithField("user_id", actor.UserID).Info("заявка создана")
	return i.Get(actor, id)
}

func (i impl) List(actor models.Actor, search string, pagination apimodels.Pagination) ([]requestapimodels.RequestView, int64, error) {
	page, limit := pagination.GetPage()
	filter := requeststore.Filter{
		Search: strings.TrimSpace(search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	switch actor.Role {
	case models.UserRoleReader:
		filter.CreatedBy = actor.UserID
	case models.UserRoleOfficer:
		filter.AssignedTo = actor.UserID
	}
	list, rowCount, err := i.deps.Requests.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка заявок")
	}
	result := make([]requestapimodels.RequestView, 0, len(list))
	for _, rec := range list {
		result = append(result, requestapimodels.RequestConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Get(actor models.Actor, id string) (requestapimodels.RequestView, error) {
	rec, err := i.getVisible(actor, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	return requestapimodels.RequestConvert(*rec), nil
}

func (i impl) Clone(actor models.Actor, id string) (requestapimodels.RequestView, error) {
	source, err := i.getVisible(actor, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	newID, err := i.deps.Requests.Create(dbmodels.Request{
		TemplateName:      source.TemplateName + " (Clone)",
		Description:       source.Description,
		Url:               source.Url,
		TemplateVariables: source.TemplateVariables,
		SignStatus:        models.SignStatusUnsigned,
		Status:            models.RecordStatusActive,
		CreatedBy:         actor.UserID,
		UpdatedBy:         actor.UserID,
		Data:              dbmodels.Documents{},
	})
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка копирования заявки")
	}
	return i.Get(actor, newID)
}

func (i impl) Delete(actor models.Actor, id string) error {
	rec, err := i.getOwned(actor, id)
	if err != nil {
		return err
	}
	if rec.SignStatus != models.SignStatusUnsigned {
		return models.PreconditionFailed("удалить можно только заявку в статусе %q", models.SignStatusUnsigned.ToHuman())
	}
	ok, err := i.deps.Requests.ConditionalUpdate(id, requeststore.Guard{
		Statuses:  []models.SignStatus{models.SignStatusUnsigned},
		CreatedBy: actor.UserID,
	}, map[string]interface{}{
		"status":     models.RecordStatusDeleted,
		"updated_by": actor.UserID,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка удаления заявки")
	}
	if !ok {
		return errConcurrentUpdate
	}
	return nil
}

func (i impl) TemplatePreview(ctx context.Context, actor models.Actor, id string) ([]byte, error) {
	rec, err := i.getVisible(actor, id)
	if err != nil {
		return nil, err
	}
	return i.previewPDF(ctx, *rec, nil)
}

func (i impl) UploadDocuments(ctx context.Context, actor models.Actor, id string, entries []requestapimodels.DocumentEntry, files []models.File) (requestapimodels.RequestView, error) {
	rec, err := i.getOwned(actor, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if !rec.SignStatus.IsEditable() {
		return requestapimodels.RequestView{}, models.PreconditionFailed("документы можно добавлять только в заявку в статусе %q или %q",
			models.SignStatusUnsigned.ToHuman(), models.SignStatusDelegated.ToHuman())
	}
	if len(entries) == 0 {
		// файлы без данных, имя документа - имя файла
		for _, file := range files {
			data := models.DocumentData{}
			data.Set("name", models.StringValue(strings.TrimSuffix(file.FileName, path.Ext(file.FileName))))
			entries = append(entries, requestapimodels.DocumentEntry{Url: file.FileName, Data: data})
		}
	}
	if len(entries) == 0 {
		return requestapimodels.RequestView{}, models.Validation("не переданы документы")
	}

	var template []byte
	docs := rec.Data.Clone()
	now := time.Now()
	for _, entry := range entries {
		doc := dbmodels.Document{
			ID:         entry.ID,
			Data:       entry.Data.Clone(),
			SignStatus: models.DocSignStatusUnsigned,
			CreatedAt:  now,
		}
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		if doc.Data == nil {
			doc.Data = models.DocumentData{}
		}
		if idx, _ := (dbmodels.Request{Data: docs}).FindDocument(doc.ID); idx >= 0 {
			return requestapimodels.RequestView{}, models.Validation("документ %s уже есть в заявке", doc.ID)
		}
		if file := findFile(files, entry.Url); file != nil {
			doc.Url = filestorage.DocumentKey(rec.ID, doc.ID, path.Ext(file.FileName))
			if err = i.deps.Storage.Put(ctx, doc.Url, file.Body, file.ContentType); err != nil {
				return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка сохранения документа")
			}
		} else {
			if template == nil {
				if template, err = i.template(ctx, *rec); err != nil {
					return requestapimodels.RequestView{}, err
				}
			}
			body, err := i.deps.Renderer.Preview(template, doc.Data.ToMap())
			if err != nil {
				return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка формирования документа")
			}
			doc.Url = filestorage.DocumentKey(rec.ID, doc.ID, docxExt)
			if err = i.deps.Storage.Put(ctx, doc.Url, body, ""); err != nil {
				return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка сохранения документа")
			}
		}
		docs = append(docs, doc)
	}

	version := rec.Version
	ok, err := i.deps.Requests.ConditionalUpdate(id, requeststore.Guard{
		Statuses: []models.SignStatus{models.SignStatusUnsigned, models.SignStatusDelegated},
		Version:  &version,
	}, map[string]interface{}{
		"data":       docs,
		"updated_by": actor.UserID,
	})
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка сохранения документов")
	}
	if !ok {
		return requestapimodels.RequestView{}, errConcurrentUpdate
	}
	log.
		WithField("request_id", id).
		WithField("count", len(entries)).
		Info("документы добавлены в заявку")
	return i.Get(actor, id)
}

func (i impl) ImportDocuments(ctx context.Context, actor models.Actor, id string, body []byte) (requestapimodels.RequestView, error) {
	rec, err := i.getOwned(actor, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	list, err := i.deps.Xls.ImportDocuments(body, rec.TemplateVariables)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	entries := make([]requestapimodels.DocumentEntry, 0, len(list))
	for _, data := range list {
		entries = append(entries, requestapimodels.DocumentEntry{Data: data})
	}
	return i.UploadDocuments(ctx, actor, id, entries, nil)
}

func (i impl) ExportDocuments(actor models.Actor, id string) (*bytes.Buffer, error) {
	rec, err := i.getVisible(actor, id)
	if err != nil {
		return nil, err
	}
	return i.deps.Xls.ExportDocuments(*rec)
}

func (i impl) PreviewDocument(ctx context.Context, actor models.Actor, id, docID string) ([]byte, error) {
	rec, err := i.getVisible(actor, id)
	if err != nil {
		return nil, err
	}
	_, doc := rec.FindDocument(docID)
	if doc == nil {
		return nil, models.NotFound("документ не найден")
	}
	return i.previewPDF(ctx, *rec, doc.Data.ToMap())
}

func (i impl) DeleteDocument(actor models.Actor, id, docID string) error {
	rec, err := i.getOwned(actor, id)
	if err != nil {
		return err
	}
	if !rec.SignStatus.IsEditable() {
		return models.PreconditionFailed("документы можно удалять только из заявки в статусе %q или %q",
			models.SignStatusUnsigned.ToHuman(), models.SignStatusDelegated.ToHuman())
	}
	idx, doc := rec.FindDocument(docID)
	if doc == nil {
		return models.NotFound("документ не найден")
	}
	if doc.SignStatus != models.DocSignStatusUnsigned {
		return models.PreconditionFailed("удалить можно только неподписанный документ")
	}
	docs := rec.Data.Clone()
	docs = append(docs[:idx], docs[idx+1:]...)
	version := rec.Version
	ok, err := i.deps.Requests.ConditionalUpdate(id, requeststore.Guard{
		Statuses: []models.SignStatus{models.SignStatusUnsigned, models.SignStatusDelegated},
		Version:  &version,
	}, map[string]interface{}{
		"data":       docs,
		"updated_by": actor.UserID,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка удаления документа")
	}
	if !ok {
		return errConcurrentUpdate
	}
	return nil
}

func (i impl) SendForSignature(actor models.Actor, id, officerID string) (requestapimodels.RequestView, error) {
	rec, err := i.getOwned(actor, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if !rec.SignStatus.Allow(models.SignActionSend) {
		return requestapimodels.RequestView{}, models.UnexpectedSignStatus(models.SignActionSend, rec.SignStatus)
	}
	if len(rec.Data) == 0 {
		return requestapimodels.RequestView{}, models.PreconditionFailed("в заявке нет документов")
	}
	officer, err := i.deps.Users.GetByID(officerID)
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка получения подписанта")
	}
	if officer == nil || !officer.IsActiveOfficer() {
		return requestapimodels.RequestView{}, models.PreconditionFailed("подписант не найден")
	}
	ok, err := i.deps.Requests.ConditionalUpdate(id, requeststore.Guard{
		Statuses:  models.SignActionSend.Sources(),
		CreatedBy: actor.UserID,
	}, map[string]interface{}{
		"sign_status":      models.SignActionSend.Target(),
		"assigned_to":      officer.ID,
		"delegated_to":     nil,
		"rejection_reason": "",
		"updated_by":       actor.UserID,
	})
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка отправки заявки на подписание")
	}
	if !ok {
		return requestapimodels.RequestView{}, errConcurrentUpdate
	}
	events.StatusUpdate(i.deps.Publisher, id, models.SignActionSend.Target())
	return i.Get(actor, id)
}

func (i impl) Reject(actor models.Actor, id, reason string) (requestapimodels.RequestView, error) {
	rec, err := i.getAssigned(actor, id, models.SignActionReject)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return requestapimodels.RequestView{}, models.Validation("не указана причина отклонения")
	}
	now := time.Now()
	docs := rec.Data.Clone()
	for idx := range docs {
		// подписанные документы остаются подписанными
		if docs[idx].SignStatus != models.DocSignStatusUnsigned {
			continue
		}
		docs[idx].SignStatus = models.DocSignStatusRejected
		docs[idx].RejectionReason = reason
		docs[idx].RejectedDate = &now
	}
	version := rec.Version
	ok, err := i.deps.Requests.ConditionalUpdate(id, requeststore.Guard{
		Statuses:   models.SignActionReject.Sources(),
		Version:    &version,
		AssignedTo: actor.UserID,
	}, map[string]interface{}{
		"data":             docs,
		"sign_status":      models.SignActionReject.Target(),
		"rejection_reason": reason,
		"updated_by":       actor.UserID,
	})
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка отклонения заявки")
	}
	if !ok {
		return requestapimodels.RequestView{}, errConcurrentUpdate
	}
	events.StatusUpdate(i.deps.Publisher, id, models.SignActionReject.Target())
	rec.Data = docs
	rec.SignStatus = models.SignActionReject.Target()
	rec.RejectionReason = reason
	if i.deps.Notifier != nil {
		i.deps.Notifier.Rejected(*rec)
	}
	return i.Get(actor, id)
}

func (i impl) RejectDocument(actor models.Actor, id, docID, reason string) (requestapimodels.RequestView, error) {
	rec, err := i.getAssigned(actor, id, models.SignActionReject)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return requestapimodels.RequestView{}, models.Validation("не указана причина отклонения")
	}
	docs := rec.Data.Clone()
	idx, doc := dbmodels.Request{Data: docs}.FindDocument(docID)
	if doc == nil {
		return requestapimodels.RequestView{}, models.NotFound("документ не найден")
	}
	if doc.SignStatus != models.DocSignStatusUnsigned {
		return requestapimodels.RequestView{}, models.PreconditionFailed("документ уже %s", strings.ToLower(doc.SignStatus.ToHuman()))
	}
	now := time.Now()
	docs[idx].SignStatus = models.DocSignStatusRejected
	docs[idx].RejectionReason = reason
	docs[idx].RejectedDate = &now
	updMap := map[string]interface{}{
		"data":       docs,
		"updated_by": actor.UserID,
	}
	// последний неподписанный документ после подписания с ошибками закрывает заявку
	completed := rec.SignStatus == models.SignStatusSignedWithErrors &&
		dbmodels.Request{Data: docs}.CountByStatus(models.DocSignStatusUnsigned) == 0
	if completed {
		updMap["sign_status"] = models.SignStatusSigned
	}
	version := rec.Version
	ok, err := i.deps.Requests.ConditionalUpdate(id, requeststore.Guard{
		Statuses:   models.SignActionReject.Sources(),
		Version:    &version,
		AssignedTo: actor.UserID,
	}, updMap)
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка отклонения документа")
	}
	if !ok {
		return requestapimodels.RequestView{}, errConcurrentUpdate
	}
	if completed {
		events.StatusUpdate(i.deps.Publisher, id, models.SignStatusSigned)
	}
	return i.Get(actor, id)
}

func (i impl) Delegate(actor models.Actor, id string) (requestapimodels.RequestView, error) {
	rec, err := i.getAssigned(actor, id, models.SignActionDelegate)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	ok, err := i.deps.Requests.ConditionalUpdate(id, requeststore.Guard{
		Statuses:   models.SignActionDelegate.Sources(),
		AssignedTo: actor.UserID,
	}, map[string]interface{}{
		"sign_status":  models.SignActionDelegate.Target(),
		"assigned_to":  rec.CreatedBy,
		"delegated_to": actor.UserID,
		"updated_by":   actor.UserID,
	})
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка возврата заявки")
	}
	if !ok {
		return requestapimodels.RequestView{}, errConcurrentUpdate
	}
	events.StatusUpdate(i.deps.Publisher, id, models.SignActionDelegate.Target())
	rec.SignStatus = models.SignActionDelegate.Target()
	if i.deps.Notifier != nil {
		i.deps.Notifier.Delegated(*rec)
	}
	fresh, err := i.deps.Requests.GetByID(id)
	if err != nil {
		return requestapimodels.RequestView{}, errors.Wrap(err, "ошибка получения заявки")
	}
	if fresh == nil {
		return requestapimodels.RequestView{}, models.NotFound("заявка не найдена")
	}
	return requestapimodels.RequestConvert(*fresh), nil
}

func (i impl) DocumentData(docID string) (requestapimodels.DocumentPublicView, error) {
	rec, err := i.deps.Requests.GetByDocumentID(docID)
	if err != nil {
		return requestapimodels.DocumentPublicView{}, errors.Wrap(err, "ошибка получения документа")
	}
	if rec == nil {
		return requestapimodels.DocumentPublicView{}, models.NotFound("документ не найден")
	}
	_, doc := rec.FindDocument(docID)
	if doc == nil {
		return requestapimodels.DocumentPublicView{}, models.NotFound("документ не найден")
	}
	return requestapimodels.DocumentPublicView{
		RequestID:    rec.ID,
		DocumentID:   doc.ID,
		TemplateName: rec.TemplateName,
		SignStatus:   doc.SignStatus,
		SignedDate:   doc.SignedDate,
		SignedPath:   doc.SignedPath,
		SignedHash:   doc.SignedHash,
		PageCount:    doc.PageCount,
		Data:         doc.Data,
	}, nil
}

func (i impl) SignedDocument(ctx context.Context, actor models.Actor, id, docID string) ([]byte, string, error) {
	rec, err := i.getVisible(actor, id)
	if err != nil {
		return nil, "", err
	}
	_, doc := rec.FindDocument(docID)
	if doc == nil {
		return nil, "", models.NotFound("документ не найден")
	}
	if doc.SignStatus != models.DocSignStatusSigned || doc.SignedPath == "" {
		return nil, "", models.PreconditionFailed("документ не подписан")
	}
	body, err := i.deps.Storage.Get(ctx, doc.SignedPath)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return nil, "", models.AssetNotFound("signed", doc.SignedPath)
		}
		return nil, "", errors.Wrap(err, "ошибка чтения подписанного документа")
	}
	return body, path.Base(doc.SignedPath), nil
}

func (i impl) Protocol(ctx context.Context, actor models.Actor, id string) ([]byte, error) {
	rec, err := i.getVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if rec.SignStatus != models.SignStatusSigned && rec.SignStatus != models.SignStatusSignedWithErrors {
		return nil, models.PreconditionFailed("протокол доступен только для подписанной заявки")
	}
	data := pdfexport.ProtocolData{
		Request:  *rec,
		QRCodes:  map[string][]byte{},
		Printed:  time.Now(),
		FontDir:  i.deps.FontDir,
		FontFile: i.deps.FontFile,
	}
	if rec.AssignedTo != nil {
		officer, err := i.deps.Users.GetByID(*rec.AssignedTo)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения подписанта")
		}
		if officer != nil {
			data.Officer = officer.Name
			if officer.CourtID != nil {
				court, err := i.deps.Courts.GetByID(*officer.CourtID)
				if err != nil {
					return nil, errors.Wrap(err, "ошибка получения суда")
				}
				if court != nil {
					data.Court = court.Name
				}
			}
		}
	}
	for _, doc := range rec.Data {
		if doc.SignStatus != models.DocSignStatusSigned {
			continue
		}
		_, qr, err := i.deps.Assets.EnsureQRCode(ctx, rec.ID, doc.ID)
		if err != nil {
			return nil, err
		}
		data.QRCodes[doc.ID] = qr
	}
	body, err := pdfexport.GenerateProtocol(data)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования протокола")
	}
	if err = i.deps.Storage.Put(ctx, filestorage.ProtocolKey(rec.ID), body, "application/pdf"); err != nil {
		log.WithError(err).WithField("request_id", rec.ID).Warn("ошибка сохранения протокола")
	}
	return body, nil
}

// getVisible заявка, доступная пользователю согласно роли
func (i impl) getVisible(actor models.Actor, id string) (*dbmodels.Request, error) {
	rec, err := i.deps.Requests.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil || !canView(actor, *rec) {
		return nil, models.NotFound("заявка не найдена")
	}
	return rec, nil
}

// getOwned заявка, созданная пользователем
func (i impl) getOwned(actor models.Actor, id string) (*dbmodels.Request, error) {
	rec, err := i.deps.Requests.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil || !rec.IsCreator(actor.UserID) {
		return nil, models.NotFound("заявка не найдена")
	}
	return rec, nil
}

// getAssigned заявка, назначенная пользователю, в статусе, допускающем action
func (i impl) getAssigned(actor models.Actor, id string, action models.SignAction) (*dbmodels.Request, error) {
	rec, err := i.deps.Requests.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil || !canView(actor, *rec) {
		return nil, models.NotFound("заявка не найдена")
	}
	if !rec.IsAssignedTo(actor.UserID) {
		return nil, models.PreconditionFailed("заявка назначена другому подписанту")
	}
	if !rec.SignStatus.Allow(action) {
		return nil, models.UnexpectedSignStatus(action, rec.SignStatus)
	}
	return rec, nil
}

func canView(actor models.Actor, rec dbmodels.Request) bool {
	switch actor.Role {
	case models.UserRoleReader:
		return rec.IsCreator(actor.UserID)
	case models.UserRoleOfficer:
		return rec.IsAssignedTo(actor.UserID) || rec.IsCreator(actor.UserID)
	case models.UserRoleAdmin:
		return true
	}
	return false
}

func (i impl) template(ctx context.Context, rec dbmodels.Request) ([]byte, error) {
	body, err := i.deps.Storage.Get(ctx, rec.Url)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return nil, models.AssetNotFound("template", rec.Url)
		}
		return nil, errors.Wrap(err, "ошибка чтения шаблона")
	}
	return body, nil
}

func (i impl) previewPDF(ctx context.Context, rec dbmodels.Request, data map[string]string) ([]byte, error) {
	template, err := i.template(ctx, rec)
	if err != nil {
		return nil, err
	}
	rendered, err := i.deps.Renderer.Preview(template, data)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка заполнения шаблона")
	}
	return i.deps.Converter.ToPDF(ctx, rendered, docxExt)
}

func findFile(files []models.File, name string) *models.File {
	if name == "" {
		return nil
	}
	for idx := range files {
		if files[idx].FileName == name {
			return &files[idx]
		}
	}
	return nil
}
