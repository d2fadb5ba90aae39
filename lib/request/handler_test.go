package request

import (
	"archive/zip"
	"bytes"
	"context"
	"esign-backend/lib/assets"
	xlsexport "esign-backend/lib/export/xls"
	filestorage "esign-backend/lib/file-storage"
	requeststore "esign-backend/lib/request/store"
	templaterenderer "esign-backend/lib/template-renderer"
	"esign-backend/models"
	apimodels "esign-backend/models/api"
	requestapimodels "esign-backend/models/api/request"
	dbmodels "esign-backend/models/db"
	wsmodels "esign-backend/models/ws"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	readerID  = "reader-1"
	officerID = "officer-1"
)

var (
	reader  = models.Actor{UserID: readerID, Role: models.UserRoleReader}
	officer = models.Actor{UserID: officerID, Role: models.UserRoleOfficer, CourtID: "court-1"}
	admin   = models.Actor{UserID: "admin-1", Role: models.UserRoleAdmin}
)

type fakeUsers struct {
	records map[string]dbmodels.User
}

func (u fakeUsers) Create(rec dbmodels.User) (string, error) {
	u.records[rec.ID] = rec
	return rec.ID, nil
}

func (u fakeUsers) GetByID(id string) (*dbmodels.User, error) {
	rec, ok := u.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (u fakeUsers) FindByEmail(email string) (*dbmodels.User, error) {
	return nil, nil
}

func (u fakeUsers) List(role models.UserRole) ([]dbmodels.User, error) {
	return nil, nil
}

func (u fakeUsers) Update(id string, updMap map[string]interface{}) error {
	return nil
}

type fakeCourts struct{}

func (c fakeCourts) List(name string) ([]dbmodels.Court, error) {
	return nil, nil
}

func (c fakeCourts) Create(rec dbmodels.Court) (string, error) {
	return "", nil
}

func (c fakeCourts) GetByID(id string) (*dbmodels.Court, error) {
	if id != "court-1" {
		return nil, nil
	}
	rec := dbmodels.Court{Name: "Районный суд"}
	rec.ID = id
	return &rec, nil
}

type fakeConverter struct{}

func (c fakeConverter) ToPDF(ctx context.Context, source []byte, sourceExt string) ([]byte, error) {
	return append([]byte("%PDF-1.4 "), source...), nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	rejected  []string
	delegated []string
}

func (n *fakeNotifier) SigningFinished(rec dbmodels.Request, status models.SignStatus) {}

func (n *fakeNotifier) Rejected(rec dbmodels.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected = append(n.rejected, rec.ID)
}

func (n *fakeNotifier) Delegated(rec dbmodels.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delegated = append(n.delegated, rec.ID)
}

type recorder struct {
	mu       sync.Mutex
	statuses []string
}

func (r *recorder) Publish(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := data.(wsmodels.RequestStatusUpdate); ok {
		r.statuses = append(r.statuses, s.Status)
	}
}

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Постановление {name}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>ФИО: {fio}, суд {Court}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>{%Signature} {%qrCode}</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func buildDocx(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	fw, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

type fixture struct {
	requests *requeststore.Memory
	storage  *filestorage.Memory
	notifier *fakeNotifier
	events   *recorder
	handler  Provider
}

func newFixture(t *testing.T) *fixture {
	xlsexport.NewHandler()
	storage := filestorage.NewMemory()
	users := fakeUsers{records: map[string]dbmodels.User{}}
	court := "court-1"
	for _, u := range []dbmodels.User{
		{BaseModel: dbmodels.BaseModel{ID: officerID}, Name: "Судья Иванова", Role: models.UserRoleOfficer, Status: models.UserStatusActive, CourtID: &court},
		{BaseModel: dbmodels.BaseModel{ID: "officer-off"}, Role: models.UserRoleOfficer, Status: models.UserStatusDisabled},
		{BaseModel: dbmodels.BaseModel{ID: readerID}, Role: models.UserRoleReader, Status: models.UserStatusActive},
	} {
		users.records[u.ID] = u
	}
	f := &fixture{
		requests: requeststore.NewMemory(),
		storage:  storage,
		notifier: &fakeNotifier{},
		events:   &recorder{},
	}
	f.handler = NewInstance(Deps{
		Requests:  f.requests,
		Users:     users,
		Courts:    fakeCourts{},
		Storage:   storage,
		Renderer:  templaterenderer.NewInstance(),
		Converter: fakeConverter{},
		Xls:       xlsexport.Instance,
		Assets:    assets.NewInstance(storage, "https://sign.example.org", 128),
		Notifier:  f.notifier,
		Publisher: f.events,
	})
	return f
}

func (f *fixture) create(t *testing.T) requestapimodels.RequestView {
	view, err := f.handler.Create(context.Background(), reader, requestapimodels.RequestData{
		Title:       "Постановления",
		Description: "март",
	}, models.File{FileName: "template.docx", Body: buildDocx(t)})
	require.NoError(t, err)
	return view
}

func entry(name, fio string) requestapimodels.DocumentEntry {
	data := models.DocumentData{}
	data.Set("name", models.StringValue(name))
	data.Set("fio", models.StringValue(fio))
	return requestapimodels.DocumentEntry{Data: data}
}

// withDocuments заявка читателя на подписании у officerID с двумя документами
func (f *fixture) withDocuments(t *testing.T) requestapimodels.RequestView {
	view := f.create(t)
	view, err := f.handler.UploadDocuments(context.Background(), reader, view.ID, []requestapimodels.DocumentEntry{
		entry("1", "Иванов"),
		entry("2", "Петров"),
	}, nil)
	require.NoError(t, err)
	view, err = f.handler.SendForSignature(reader, view.ID, officerID)
	require.NoError(t, err)
	return view
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)

	require.Equal(t, "Постановления", view.Title)
	require.Equal(t, models.SignStatusUnsigned, view.Status)
	require.Equal(t, []models.TemplateVariable{
		{Name: "name", Required: true, ShowOnExcel: true},
		{Name: "fio", Required: true, ShowOnExcel: true},
		{Name: "Court"},
		{Name: "%Signature"},
		{Name: "%qrCode"},
	}, view.TemplateVariables)
	require.Equal(t, "templates/"+view.ID+"_template.docx", view.Url)
	exists, err := f.storage.Exists(context.Background(), view.Url)
	require.NoError(t, err)
	require.True(t, exists)

	t.Run("не docx", func(t *testing.T) {
		_, err := f.handler.Create(context.Background(), reader, requestapimodels.RequestData{Title: "x"},
			models.File{FileName: "template.pdf", Body: []byte("%PDF")})
		require.True(t, models.IsKind(err, models.ErrValidation), err)
	})
	t.Run("без названия", func(t *testing.T) {
		_, err := f.handler.Create(context.Background(), reader, requestapimodels.RequestData{},
			models.File{FileName: "template.docx", Body: buildDocx(t)})
		require.True(t, models.IsKind(err, models.ErrValidation), err)
	})
}

func TestListAndAccess(t *testing.T) {
	f := newFixture(t)
	sent := f.withDocuments(t)
	draft := f.create(t)

	tests := []struct {
		name  string
		actor models.Actor
		want  []string
	}{
		{name: "автор видит свои заявки", actor: reader, want: []string{sent.ID, draft.ID}},
		{name: "подписант видит назначенные", actor: officer, want: []string{sent.ID}},
		{name: "администратор видит все", actor: admin, want: []string{sent.ID, draft.ID}},
		{name: "чужой автор", actor: models.Actor{UserID: "reader-2", Role: models.UserRoleReader}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, _, err := f.handler.List(tt.actor, "", apimodels.Pagination{})
			require.NoError(t, err)
			ids := make([]string, 0)
			for _, item := range list {
				ids = append(ids, item.ID)
			}
			require.ElementsMatch(t, tt.want, ids)
		})
	}

	list, rowCount, err := f.handler.List(reader, "ПОСТАНОВ", apimodels.Pagination{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.EqualValues(t, 2, rowCount)
	list, _, err = f.handler.List(reader, "приказ", apimodels.Pagination{})
	require.NoError(t, err)
	require.Empty(t, list)

	first, _, err := f.handler.List(reader, "", apimodels.Pagination{Page: 1, Limit: 1})
	require.NoError(t, err)
	second, rowCount, err := f.handler.List(reader, "", apimodels.Pagination{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.EqualValues(t, 2, rowCount)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	require.NotEqual(t, first[0].ID, second[0].ID)

	_, err = f.handler.Get(officer, draft.ID)
	require.True(t, models.IsKind(err, models.ErrNotFound), err)
}

func TestCloneAndDelete(t *testing.T) {
	f := newFixture(t)
	sent := f.withDocuments(t)

	clone, err := f.handler.Clone(reader, sent.ID)
	require.NoError(t, err)
	require.Equal(t, "Постановления (Clone)", clone.Title)
	require.Equal(t, models.SignStatusUnsigned, clone.Status)
	require.Empty(t, clone.Documents)
	require.Equal(t, sent.Url, clone.Url)
	require.Equal(t, sent.TemplateVariables, clone.TemplateVariables)

	err = f.handler.Delete(reader, sent.ID)
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
	err = f.handler.Delete(officer, clone.ID)
	require.True(t, models.IsKind(err, models.ErrNotFound), err)

	require.NoError(t, f.handler.Delete(reader, clone.ID))
	_, err = f.handler.Get(reader, clone.ID)
	require.True(t, models.IsKind(err, models.ErrNotFound), err)
}

func TestUploadDocuments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.create(t)

	withFile := entry("1", "Иванов")
	withFile.ID = "doc-1"
	withFile.Url = "scan.docx"
	view, err := f.handler.UploadDocuments(ctx, reader, view.ID, []requestapimodels.DocumentEntry{
		withFile,
		entry("2", "Петров"),
	}, []models.File{{FileName: "scan.docx", Body: []byte("uploaded")}})
	require.NoError(t, err)
	require.Len(t, view.Documents, 2)
	require.Equal(t, "documents/"+view.ID+"/doc-1.docx", view.Documents[0].FilePath)
	body, err := f.storage.Get(ctx, view.Documents[0].FilePath)
	require.NoError(t, err)
	require.Equal(t, "uploaded", string(body))

	generated, err := f.storage.Get(ctx, view.Documents[1].FilePath)
	require.NoError(t, err)
	reader2, err := zip.NewReader(bytes.NewReader(generated), int64(len(generated)))
	require.NoError(t, err)
	require.Len(t, reader2.File, 1)

	_, err = f.handler.UploadDocuments(ctx, reader, view.ID, []requestapimodels.DocumentEntry{withFile}, nil)
	require.True(t, models.IsKind(err, models.ErrValidation), err)

	require.NoError(t, f.handler.DeleteDocument(reader, view.ID, "doc-1"))
	got, err := f.handler.Get(reader, view.ID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	require.Equal(t, "2", got.Documents[0].Name)

	err = f.handler.DeleteDocument(reader, view.ID, "missing")
	require.True(t, models.IsKind(err, models.ErrNotFound), err)

	_, err = f.handler.SendForSignature(reader, view.ID, officerID)
	require.NoError(t, err)
	_, err = f.handler.UploadDocuments(ctx, reader, view.ID, []requestapimodels.DocumentEntry{entry("3", "Сидоров")}, nil)
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
}

func TestImportExportDocuments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.create(t)

	xlsx := excelize.NewFile()
	defer xlsx.Close()
	for idx, row := range [][]interface{}{
		{"name", "fio"},
		{"1", "Иванов"},
		{"2", "Петров"},
	} {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		require.NoError(t, xlsx.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := xlsx.WriteToBuffer()
	require.NoError(t, err)

	view, err = f.handler.ImportDocuments(ctx, reader, view.ID, buf.Bytes())
	require.NoError(t, err)
	require.Len(t, view.Documents, 2)
	require.Equal(t, map[string]string{"name": "2", "fio": "Петров"}, view.Documents[1].Data.ToMap())

	out, err := f.handler.ExportDocuments(reader, view.ID)
	require.NoError(t, err)
	exported, err := excelize.OpenReader(out)
	require.NoError(t, err)
	defer exported.Close()
	value, err := exported.GetCellValue("Документы", "B3")
	require.NoError(t, err)
	require.Equal(t, "Петров", value)
}

func TestSendForSignature(t *testing.T) {
	f := newFixture(t)
	empty := f.create(t)

	_, err := f.handler.SendForSignature(reader, empty.ID, officerID)
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)

	view := f.withDocuments(t)
	require.Equal(t, models.SignStatusReadyForSign, view.Status)
	require.Equal(t, officerID, view.AssignedTo)
	require.Equal(t, []string{"readyForSign"}, f.events.statuses)

	_, err = f.handler.SendForSignature(reader, view.ID, officerID)
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)

	other := f.create(t)
	_, err = f.handler.UploadDocuments(context.Background(), reader, other.ID, []requestapimodels.DocumentEntry{entry("1", "x")}, nil)
	require.NoError(t, err)
	for _, target := range []string{"officer-off", readerID, "missing"} {
		_, err = f.handler.SendForSignature(reader, other.ID, target)
		require.True(t, models.IsKind(err, models.ErrPreconditionFailed), target)
	}
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	view := f.withDocuments(t)

	// первый документ отклонен заранее
	view, err := f.handler.RejectDocument(officer, view.ID, view.Documents[0].ID, "опечатка")
	require.NoError(t, err)
	firstRejected := view.Documents[0]
	require.Equal(t, models.DocSignStatusRejected, firstRejected.SignStatus)
	require.Equal(t, models.SignStatusReadyForSign, view.Status)

	_, err = f.handler.RejectDocument(officer, view.ID, view.Documents[0].ID, "опечатка")
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
	_, err = f.handler.Reject(reader, view.ID, "нет")
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
	_, err = f.handler.Reject(officer, view.ID, " ")
	require.True(t, models.IsKind(err, models.ErrValidation), err)

	time.Sleep(time.Millisecond)
	view, err = f.handler.Reject(officer, view.ID, "неверные данные")
	require.NoError(t, err)
	require.Equal(t, models.SignStatusRejected, view.Status)
	require.Equal(t, "неверные данные", view.RejectionReason)
	require.Equal(t, firstRejected, view.Documents[0])
	require.Equal(t, models.DocSignStatusRejected, view.Documents[1].SignStatus)
	require.Equal(t, "неверные данные", view.Documents[1].RejectionReason)
	require.NotNil(t, view.Documents[1].RejectedDate)
	require.Equal(t, []string{view.ID}, f.notifier.rejected)

	_, err = f.handler.Reject(officer, view.ID, "повторно")
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
	require.True(t, strings.Contains(err.Error(), "readyForSign"), err.Error())
}

func TestRejectAfterPartialSigning(t *testing.T) {
	// signedWithErrors: первый документ подписан, второй не удалось подписать
	partial := func(t *testing.T, f *fixture) requestapimodels.RequestView {
		view := f.withDocuments(t)
		rec, err := f.requests.GetByID(view.ID)
		require.NoError(t, err)
		signed := time.Now()
		rec.Data[0].SignStatus = models.DocSignStatusSigned
		rec.Data[0].SignedDate = &signed
		rec.Data[1].SignError = "ошибка конвертации"
		ok, err := f.requests.ConditionalUpdate(rec.ID, requeststore.Guard{}, map[string]interface{}{
			"data":        rec.Data,
			"sign_status": models.SignStatusSignedWithErrors,
		})
		require.NoError(t, err)
		require.True(t, ok)
		return view
	}

	t.Run("отклонение заявки", func(t *testing.T) {
		f := newFixture(t)
		view := partial(t, f)

		view, err := f.handler.Reject(officer, view.ID, "данные не исправить")
		require.NoError(t, err)
		require.Equal(t, models.SignStatusRejected, view.Status)
		require.Equal(t, models.DocSignStatusSigned, view.Documents[0].SignStatus)
		require.Empty(t, view.Documents[0].RejectionReason)
		require.Equal(t, models.DocSignStatusRejected, view.Documents[1].SignStatus)
		require.Equal(t, "данные не исправить", view.Documents[1].RejectionReason)
		require.Equal(t, []string{view.ID}, f.notifier.rejected)
	})

	t.Run("отклонение последнего документа", func(t *testing.T) {
		f := newFixture(t)
		view := partial(t, f)

		view, err := f.handler.RejectDocument(officer, view.ID, view.Documents[1].ID, "нет данных")
		require.NoError(t, err)
		require.Equal(t, models.SignStatusSigned, view.Status)
		require.Equal(t, models.DocSignStatusSigned, view.Documents[0].SignStatus)
		require.Equal(t, models.DocSignStatusRejected, view.Documents[1].SignStatus)
		require.Equal(t, []string{"readyForSign", "signed"}, f.events.statuses)

		_, err = f.handler.RejectDocument(officer, view.ID, view.Documents[0].ID, "нет данных")
		require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
	})
}

func TestDelegate(t *testing.T) {
	f := newFixture(t)
	view := f.withDocuments(t)

	view, err := f.handler.Delegate(officer, view.ID)
	require.NoError(t, err)
	require.Equal(t, models.SignStatusDelegated, view.Status)
	require.Equal(t, readerID, view.AssignedTo)
	require.Len(t, view.Documents, 2)
	require.Equal(t, []string{view.ID}, f.notifier.delegated)

	// автор может исправить документы и отправить повторно
	require.NoError(t, f.handler.DeleteDocument(reader, view.ID, view.Documents[0].ID))
	view, err = f.handler.SendForSignature(reader, view.ID, officerID)
	require.NoError(t, err)
	require.Equal(t, models.SignStatusReadyForSign, view.Status)
	require.Equal(t, []string{"readyForSign", "delegated", "readyForSign"}, f.events.statuses)
}

func TestSignedArtifacts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.withDocuments(t)
	docID := view.Documents[0].ID

	_, _, err := f.handler.SignedDocument(ctx, officer, view.ID, docID)
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
	_, err = f.handler.Protocol(ctx, officer, view.ID)
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)

	// результат подписания
	rec, err := f.requests.GetByID(view.ID)
	require.NoError(t, err)
	signed := time.Now()
	rec.Data[0].SignStatus = models.DocSignStatusSigned
	rec.Data[0].SignedPath = filestorage.SignedKey(rec.ID, docID)
	rec.Data[0].SignedDate = &signed
	rec.Data[0].SignedHash = "abc"
	rec.Data[1].SignError = "ошибка конвертации"
	require.NoError(t, f.storage.Put(ctx, rec.Data[0].SignedPath, []byte("%PDF-signed"), "application/pdf"))
	ok, err := f.requests.ConditionalUpdate(rec.ID, requeststore.Guard{}, map[string]interface{}{
		"data":        rec.Data,
		"sign_status": models.SignStatusSignedWithErrors,
	})
	require.NoError(t, err)
	require.True(t, ok)

	body, name, err := f.handler.SignedDocument(ctx, reader, view.ID, docID)
	require.NoError(t, err)
	require.Equal(t, "%PDF-signed", string(body))
	require.Equal(t, docID+"_signed.pdf", name)

	public, err := f.handler.DocumentData(docID)
	require.NoError(t, err)
	require.Equal(t, view.ID, public.RequestID)
	require.Equal(t, "Постановления", public.TemplateName)
	require.Equal(t, "abc", public.SignedHash)
	_, err = f.handler.DocumentData("missing")
	require.True(t, models.IsKind(err, models.ErrNotFound), err)

	protocol, err := f.handler.Protocol(ctx, officer, view.ID)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(protocol, []byte("%PDF")))
	stored, err := f.storage.Get(ctx, filestorage.ProtocolKey(view.ID))
	require.NoError(t, err)
	require.Equal(t, protocol, stored)
}

func TestPreview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.withDocuments(t)

	pdf, err := f.handler.TemplatePreview(ctx, officer, view.ID)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.4 PK")))

	_, err = f.handler.PreviewDocument(ctx, officer, view.ID, view.Documents[0].ID)
	require.NoError(t, err)
	_, err = f.handler.PreviewDocument(ctx, officer, view.ID, "missing")
	require.True(t, models.IsKind(err, models.ErrNotFound), err)
}
