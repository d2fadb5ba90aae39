package signing

import (
	"context"
	"encoding/hex"
	"esign-backend/lib/assets"
	"esign-backend/lib/converter"
	courtstore "esign-backend/lib/dicts/court/store"
	"esign-backend/lib/events"
	filestorage "esign-backend/lib/file-storage"
	"esign-backend/lib/notify"
	requeststore "esign-backend/lib/request/store"
	signaturestore "esign-backend/lib/signature/store"
	templaterenderer "esign-backend/lib/template-renderer"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"path"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"
)

// docStage этап обработки документа
type docStage string

const (
	stagePending    docStage = "pending"
	stageRendering  docStage = "rendering"
	stageConverting docStage = "converting"
	stagePersisting docStage = "persisting"
	stagePersisted  docStage = "persisted"
)

// Result итог обработки задачи
type Result struct {
	Status models.SignStatus
	Total  int
	Signed int
	Failed int
}

type Processor struct {
	requests     requeststore.Provider
	signatures   signaturestore.Provider
	courts       courtstore.Provider
	storage      filestorage.Provider
	renderer     templaterenderer.Provider
	converter    converter.Provider
	assets       assets.Provider
	publisher    events.Publisher
	notifier     notify.Provider
	defaultCourt string
}

type ProcessorDeps struct {
	Requests     requeststore.Provider
	Signatures   signaturestore.Provider
	Courts       courtstore.Provider
	Storage      filestorage.Provider
	Renderer     templaterenderer.Provider
	Converter    converter.Provider
	Assets       assets.Provider
	Publisher    events.Publisher
	Notifier     notify.Provider // может отсутствовать
	DefaultCourt string
}

func NewProcessor(deps ProcessorDeps) *Processor {
	return &Processor{
		requests:     deps.Requests,
		signatures:   deps.Signatures,
		courts:       deps.Courts,
		storage:      deps.Storage,
		renderer:     deps.Renderer,
		converter:    deps.Converter,
		assets:       deps.Assets,
		publisher:    deps.Publisher,
		notifier:     deps.Notifier,
		defaultCourt: deps.DefaultCourt,
	}
}

// signEnv общие для всех документов задачи данные
type signEnv struct {
	request   dbmodels.Request
	signature dbmodels.Signature
	courtName string
	template  []byte
}

// Process подписывает все неподписанные документы заявки.
// Ошибка документа не прерывает задачу, ошибка возвращается только если итог не сохранен.
func (p *Processor) Process(ctx context.Context, job dbmodels.SignJob, touch func()) (Result, error) {
	// задача выполняется до конца и после остановки процесса
	ctx = context.WithoutCancel(ctx)
	payload := job.Payload()
	logger := log.
		WithField("job_id", job.ID).
		WithField("request_id", payload.RequestID)

	env, err := p.prepare(ctx, payload)
	if err != nil {
		return Result{}, err
	}

	docs := env.request.Data.Clone()
	result := Result{Total: env.request.CountByStatus(models.DocSignStatusUnsigned)}
	events.SigningProgress(p.publisher, payload.RequestID, 0, result.Total)

	for idx := range docs {
		doc := &docs[idx]
		if doc.SignStatus != models.DocSignStatusUnsigned {
			continue
		}
		docLogger := logger.WithField("document_id", doc.ID)
		stage, err := p.signDocument(ctx, env, doc)
		if err != nil {
			doc.SignError = err.Error()
			result.Failed++
			docLogger.
				WithError(err).
				WithField("stage", stage).
				Error("ошибка подписания документа")
		} else {
			result.Signed++
			events.SigningProgress(p.publisher, payload.RequestID, result.Signed, result.Total)
			docLogger.Info("документ подписан")
		}
		if touch != nil {
			touch()
		}
	}

	action := models.SignActionComplete
	if result.Failed > 0 {
		action = models.SignActionCompleteWithErrors
	}
	result.Status = action.Target()
	// заявка могла быть возвращена и отправлена повторно, пока задача выполнялась
	version := env.request.Version
	ok, err := p.requests.ConditionalUpdate(payload.RequestID, requeststore.Guard{
		Statuses: action.Sources(),
		Version:  &version,
	}, map[string]interface{}{
		"data":        docs,
		"sign_status": result.Status,
		"updated_by":  payload.UserID,
	})
	if err != nil {
		return result, models.PersistenceFailed(err, "ошибка сохранения результата подписания")
	}
	if !ok {
		return result, models.PersistenceFailed(nil, "заявка изменена во время подписания")
	}
	logger.
		WithField("signed", result.Signed).
		WithField("failed", result.Failed).
		Info("подписание заявки завершено")
	events.StatusUpdate(p.publisher, payload.RequestID, result.Status)

	if p.notifier != nil {
		final := env.request
		final.Data = docs
		final.SignStatus = result.Status
		p.notifier.SigningFinished(final, result.Status)
	}
	return result, nil
}

// prepare данные, без которых задача не может быть выполнена
func (p *Processor) prepare(ctx context.Context, payload models.SignJobPayload) (signEnv, error) {
	rec, err := p.requests.GetByID(payload.RequestID)
	if err != nil {
		return signEnv{}, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return signEnv{}, models.NotFound("заявка не найдена")
	}
	if rec.SignStatus != models.SignStatusInProcess {
		return signEnv{}, models.PreconditionFailed("заявка не в статусе %q, текущий статус %q", models.SignStatusInProcess, rec.SignStatus)
	}
	signature, err := p.signatures.GetByID(payload.SignatureID)
	if err != nil {
		return signEnv{}, errors.Wrap(err, "ошибка получения подписи")
	}
	if signature == nil {
		return signEnv{}, models.AssetNotFound(models.TagSignature)
	}
	courtName := p.defaultCourt
	if payload.CourtID != "" {
		court, err := p.courts.GetByID(payload.CourtID)
		if err != nil {
			return signEnv{}, errors.Wrap(err, "ошибка получения суда")
		}
		if court != nil {
			courtName = court.Name
		}
	}
	template, err := p.storage.Get(ctx, rec.Url)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return signEnv{}, models.AssetNotFound("template", rec.Url)
		}
		return signEnv{}, errors.Wrap(err, "ошибка чтения шаблона")
	}
	return signEnv{
		request:   *rec,
		signature: *signature,
		courtName: courtName,
		template:  template,
	}, nil
}

// signDocument проводит документ по этапам, возвращает этап, на котором произошла ошибка
func (p *Processor) signDocument(ctx context.Context, env signEnv, doc *dbmodels.Document) (docStage, error) {
	var (
		qrKey    string
		qr       []byte
		rendered []byte
		pdf      []byte
		err      error
	)
	stage := stagePending
	for stage != stagePersisted {
		switch stage {
		case stagePending:
			qrKey, qr, err = p.assets.EnsureQRCode(ctx, env.request.ID, doc.ID)
			if err != nil {
				return stage, err
			}
			stage = stageRendering
		case stageRendering:
			data := doc.Data.ToMap()
			data[models.TagSignature] = env.signature.Url
			data[models.TagCourt] = env.courtName
			data[models.TagQrCode] = qrKey
			rendered, err = p.renderer.Render(env.template, data, &signImages{
				ctx:       ctx,
				assets:    p.assets,
				signature: env.signature,
				qrKey:     qrKey,
				qr:        qr,
			})
			if err != nil {
				return stage, err
			}
			stage = stageConverting
		case stageConverting:
			ext := path.Ext(env.request.Url)
			if ext == "" {
				ext = ".docx"
			}
			pdf, err = p.converter.ToPDF(ctx, rendered, ext)
			if err != nil {
				return stage, err
			}
			stage = stagePersisting
		case stagePersisting:
			key := filestorage.SignedKey(env.request.ID, doc.ID)
			if err = p.storage.Put(ctx, key, pdf, "application/pdf"); err != nil {
				return stage, errors.Wrap(err, "ошибка сохранения подписанного документа")
			}
			pages, err := converter.PageCount(pdf)
			if err != nil {
				log.WithError(err).WithField("document_id", doc.ID).Warn("не удалось определить количество страниц")
			}
			sum := blake3.Sum256(pdf)
			now := time.Now()
			doc.SignedPath = key
			doc.QrCodePath = qrKey
			doc.SignedHash = hex.EncodeToString(sum[:])
			doc.PageCount = pages
			doc.SignedDate = &now
			doc.SignStatus = models.DocSignStatusSigned
			doc.SignError = ""
			stage = stagePersisted
		}
	}
	return stage, nil
}

// signImages изображения для меток документа, подпись читается при первом обращении
type signImages struct {
	ctx       context.Context
	assets    assets.Provider
	signature dbmodels.Signature
	qrKey     string
	qr        []byte
	sigData   []byte
}

func (s *signImages) Image(tag string) ([]byte, error) {
	switch models.TrimImagePrefix(tag) {
	case models.TagSignature:
		if s.sigData == nil {
			data, err := s.assets.Signature(s.ctx, s.signature)
			if err != nil {
				return nil, err
			}
			s.sigData = data
		}
		return s.sigData, nil
	case models.TagQrCode:
		if len(s.qr) == 0 {
			return nil, models.AssetNotFound(models.TagQrCode, s.qrKey)
		}
		return s.qr, nil
	}
	return nil, models.AssetNotFound(tag)
}
