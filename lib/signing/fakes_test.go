package signing

import (
	"context"
	"esign-backend/lib/assets"
	filestorage "esign-backend/lib/file-storage"
	requeststore "esign-backend/lib/request/store"
	signqueue "esign-backend/lib/signing/queue"
	templaterenderer "esign-backend/lib/template-renderer"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	wsmodels "esign-backend/models/ws"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	creatorID   = "reader-1"
	officerID   = "officer-1"
	courtID     = "court-1"
	signatureID = "signature-1"
	templateKey = "templates/r_template.docx"
)

type fakeQueue struct {
	mu          sync.Mutex
	jobs        []*dbmodels.SignJob
	failEnqueue error
}

func (q *fakeQueue) Enqueue(payload models.SignJobPayload) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failEnqueue != nil {
		return "", q.failEnqueue
	}
	for _, job := range q.jobs {
		if job.RequestID == payload.RequestID && job.Status.IsOutstanding() {
			return "", errors.New("duplicate key value violates unique constraint")
		}
	}
	job := &dbmodels.SignJob{
		RequestID:   payload.RequestID,
		UserID:      payload.UserID,
		SignatureID: payload.SignatureID,
		CourtID:     payload.CourtID,
		Status:      models.JobStatusPending,
	}
	job.ID = uuid.NewString()
	job.CreatedAt = time.Now()
	q.jobs = append(q.jobs, job)
	return job.ID, nil
}

func (q *fakeQueue) Claim(worker string, lease time.Duration) (*dbmodels.SignJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.Status != models.JobStatusPending {
			continue
		}
		until := time.Now().Add(lease)
		job.Status = models.JobStatusRunning
		job.Worker = worker
		job.Attempts++
		job.LeaseUntil = &until
		result := *job
		return &result, nil
	}
	return nil, nil
}

func (q *fakeQueue) Touch(id string, lease time.Duration) error {
	return nil
}

func (q *fakeQueue) Finish(id string, status models.JobStatus, errText string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.ID == id && job.Status == models.JobStatusRunning {
			job.Status = status
			job.Error = errText
		}
	}
	return nil
}

func (q *fakeQueue) Cancel(id string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.ID == id && job.Status == models.JobStatusPending {
			job.Status = models.JobStatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (q *fakeQueue) GetByID(id string) (*dbmodels.SignJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.ID == id {
			result := *job
			return &result, nil
		}
	}
	return nil, nil
}

func (q *fakeQueue) HasOutstanding(requestID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.RequestID == requestID && job.Status.IsOutstanding() {
			return true, nil
		}
	}
	return false, nil
}

func (q *fakeQueue) ExpireLeases(now time.Time) ([]dbmodels.SignJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	list := make([]dbmodels.SignJob, 0)
	for _, job := range q.jobs {
		if job.Status == models.JobStatusRunning && job.LeaseUntil != nil && job.LeaseUntil.Before(now) {
			job.Status = models.JobStatusFailed
			list = append(list, *job)
		}
	}
	return list, nil
}

func (q *fakeQueue) List(status models.JobStatus, limit int) ([]dbmodels.SignJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	list := make([]dbmodels.SignJob, 0)
	for _, job := range q.jobs {
		if status == "" || job.Status == status {
			list = append(list, *job)
		}
	}
	return list, nil
}

func (q *fakeQueue) status(id string) models.JobStatus {
	job, _ := q.GetByID(id)
	if job == nil {
		return ""
	}
	return job.Status
}

type fakeSignatures struct {
	records map[string]dbmodels.Signature
}

func (s fakeSignatures) Create(rec dbmodels.Signature) (string, error) {
	s.records[rec.ID] = rec
	return rec.ID, nil
}

func (s fakeSignatures) GetByID(id string) (*dbmodels.Signature, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s fakeSignatures) GetByIDAndUser(id, userID string) (*dbmodels.Signature, error) {
	rec, ok := s.records[id]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	return &rec, nil
}

func (s fakeSignatures) List(userID string) ([]dbmodels.Signature, error) {
	list := make([]dbmodels.Signature, 0)
	for _, rec := range s.records {
		if rec.UserID == userID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeCourts struct {
	records map[string]dbmodels.Court
}

func (c fakeCourts) List(name string) ([]dbmodels.Court, error) {
	list := make([]dbmodels.Court, 0)
	for _, rec := range c.records {
		list = append(list, rec)
	}
	return list, nil
}

func (c fakeCourts) Create(rec dbmodels.Court) (string, error) {
	c.records[rec.ID] = rec
	return rec.ID, nil
}

func (c fakeCourts) GetByID(id string) (*dbmodels.Court, error) {
	rec, ok := c.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type recordedEvent struct {
	event string
	data  interface{}
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{event: event, data: data})
}

func (r *recorder) progress() []wsmodels.SigningProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]wsmodels.SigningProgress, 0)
	for _, ev := range r.events {
		if p, ok := ev.data.(wsmodels.SigningProgress); ok {
			list = append(list, p)
		}
	}
	return list
}

func (r *recorder) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]string, 0)
	for _, ev := range r.events {
		if s, ok := ev.data.(wsmodels.RequestStatusUpdate); ok {
			list = append(list, s.Status)
		}
	}
	return list
}

func (r *recorder) failures() []wsmodels.SigningFailed {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]wsmodels.SigningFailed, 0)
	for _, ev := range r.events {
		if f, ok := ev.data.(wsmodels.SigningFailed); ok {
			list = append(list, f)
		}
	}
	return list
}

// fakeRenderer запрашивает оба изображения, как шаблон с метками {%Signature} и {%qrCode}
type fakeRenderer struct {
	panicOnRender bool
}

func (r fakeRenderer) Render(template []byte, data map[string]string, images templaterenderer.ImageSource) ([]byte, error) {
	if r.panicOnRender {
		panic("render failed")
	}
	for _, tag := range []string{"%" + models.TagSignature, "%" + models.TagQrCode} {
		if _, err := images.Image(tag); err != nil {
			return nil, err
		}
	}
	return []byte(data["name"] + "|" + data[models.TagCourt]), nil
}

func (r fakeRenderer) Preview(template []byte, data map[string]string) ([]byte, error) {
	return template, nil
}

func (r fakeRenderer) ExtractVariables(template []byte) ([]models.TemplateVariable, error) {
	return nil, nil
}

type fakeConverter struct {
	mu     sync.Mutex
	calls  int
	failOn map[int]bool
	// onConvert выполняется один раз при первом вызове
	onConvert func()
}

func (c *fakeConverter) ToPDF(ctx context.Context, source []byte, sourceExt string) ([]byte, error) {
	c.mu.Lock()
	hook := c.onConvert
	c.onConvert = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failOn[c.calls] {
		return nil, models.ConversionFailed(errors.New("exit status 1"), "source file could not be loaded")
	}
	return append([]byte("%PDF-1.4 "), source...), nil
}

type fixture struct {
	requests   *requeststore.Memory
	queue      *fakeQueue
	signatures fakeSignatures
	courts     fakeCourts
	storage    *filestorage.Memory
	events     *recorder
	renderer   *fakeRenderer
	converter  *fakeConverter
	handler    Provider
	processor  *Processor
	pool       *Pool
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		requests:   requeststore.NewMemory(),
		queue:      &fakeQueue{},
		signatures: fakeSignatures{records: map[string]dbmodels.Signature{}},
		courts:     fakeCourts{records: map[string]dbmodels.Court{}},
		storage:    filestorage.NewMemory(),
		events:     &recorder{},
		renderer:   &fakeRenderer{},
		converter:  &fakeConverter{failOn: map[int]bool{}},
	}
	ctx := context.Background()
	require.NoError(t, f.storage.Put(ctx, templateKey, []byte("template"), ""))
	require.NoError(t, f.storage.Put(ctx, "signatures/signature-1.png", []byte("png"), "image/png"))

	sig := dbmodels.Signature{UserID: officerID, Url: "signatures/signature-1.png"}
	sig.ID = signatureID
	f.signatures.records[sig.ID] = sig
	court := dbmodels.Court{Name: "Районный суд"}
	court.ID = courtID
	f.courts.records[court.ID] = court

	tx := func(fn func(requests requeststore.Provider, jobs signqueue.Provider) error) error {
		return fn(f.requests, f.queue)
	}
	f.handler = NewInstance(f.requests, f.queue, f.signatures, f.courts, tx, f.events)
	f.processor = NewProcessor(ProcessorDeps{
		Requests:     f.requests,
		Signatures:   f.signatures,
		Courts:       f.courts,
		Storage:      f.storage,
		Renderer:     f.renderer,
		Converter:    f.converter,
		Assets:       assets.NewInstance(f.storage, "https://sign.example.org", 128),
		Publisher:    f.events,
		DefaultCourt: "Unknown Court",
	})
	f.pool = NewPool(f.queue, f.requests, f.processor, f.events, PoolConfig{Concurrency: 1})
	return f
}

func document(id string, status models.DocSignStatus) dbmodels.Document {
	data := models.DocumentData{}
	data.Set("name", models.StringValue("Документ "+id))
	data.Set("fio", models.StringValue("Иванов И.И."))
	return dbmodels.Document{
		ID:         id,
		Url:        "documents/" + id + ".docx",
		Data:       data,
		SignStatus: status,
		CreatedAt:  time.Now(),
	}
}

// addRequest заявка на подписании у officerID
func (f *fixture) addRequest(t *testing.T, docs ...dbmodels.Document) string {
	assigned := officerID
	id, err := f.requests.Create(dbmodels.Request{
		TemplateName: "Постановление",
		Url:          templateKey,
		TemplateVariables: dbmodels.TemplateVariables{
			{Name: "name", Required: true},
			{Name: "fio", Required: true, ShowOnExcel: true},
			{Name: "%Signature"},
			{Name: "Court"},
		},
		SignStatus: models.SignStatusReadyForSign,
		CreatedBy:  creatorID,
		AssignedTo: &assigned,
		Data:       docs,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) request(t *testing.T, id string) dbmodels.Request {
	rec, err := f.requests.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return *rec
}

func officer() models.Actor {
	return models.Actor{UserID: officerID, Role: models.UserRoleOfficer, CourtID: courtID}
}

func guardAny() requeststore.Guard {
	return requeststore.Guard{}
}
