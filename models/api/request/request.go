package requestapimodels

import (
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type RequestData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r RequestData) Validate() error {
	if r.Title == "" {
		return errors.New("не указано название заявки")
	}
	return nil
}

type RequestView struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Url               string                    `json:"url,omitempty"`
	Status            models.SignStatus         `json:"status"`
	StatusName        string                    `json:"statusName"`
	DocumentCount     int                       `json:"documentCount"`
	RejectedCount     int                       `json:"rejectedCount"`
	SignedCount       int                       `json:"signedCount"`
	CreatedAt         time.Time                 `json:"createdAt"`
	CreatedBy         string                    `json:"createdBy"`
	AssignedTo        string                    `json:"assignedTo,omitempty"`
	RejectionReason   string                    `json:"rejectionReason,omitempty"`
	TemplateVariables []models.TemplateVariable `json:"templateVariables"`
	Documents         []DocumentView            `json:"documents"`
}

type DocumentView struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	FilePath        string               `json:"filePath"`
	UploadedAt      time.Time            `json:"uploadedAt"`
	SignStatus      models.DocSignStatus `json:"signStatus"`
	SignedDate      *time.Time           `json:"signedDate,omitempty"`
	SignedPath      string               `json:"signedPath,omitempty"`
	SignError       string               `json:"signError,omitempty"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	RejectedDate    *time.Time           `json:"rejectedDate,omitempty"`
	Data            models.DocumentData  `json:"data"`
}

func RequestConvert(rec dbmodels.Request) RequestView {
	result := RequestView{
		ID:                rec.ID,
		Title:             rec.TemplateName,
		Description:       rec.Description,
		Url:               rec.Url,
		Status:            rec.SignStatus,
		StatusName:        rec.SignStatus.ToHuman(),
		DocumentCount:     len(rec.Data),
		RejectedCount:     rec.CountByStatus(models.DocSignStatusRejected),
		SignedCount:       rec.CountByStatus(models.DocSignStatusSigned),
		CreatedAt:         rec.CreatedAt,
		CreatedBy:         rec.CreatedBy,
		RejectionReason:   rec.RejectionReason,
		TemplateVariables: rec.TemplateVariables,
		Documents:         make([]DocumentView, 0, len(rec.Data)),
	}
	if result.TemplateVariables == nil {
		result.TemplateVariables = []models.TemplateVariable{}
	}
	if rec.AssignedTo != nil {
		result.AssignedTo = *rec.AssignedTo
	}
	for _, doc := range rec.Data {
		result.Documents = append(result.Documents, DocumentConvert(doc))
	}
	return result
}

func DocumentConvert(doc dbmodels.Document) DocumentView {
	data := doc.Data
	if data == nil {
		data = models.DocumentData{}
	}
	return DocumentView{
		ID:              doc.ID,
		Name:            doc.Name(),
		FilePath:        doc.Url,
		UploadedAt:      doc.CreatedAt,
		SignStatus:      doc.SignStatus,
		SignedDate:      doc.SignedDate,
		SignedPath:      doc.SignedPath,
		SignError:       doc.SignError,
		RejectionReason: doc.RejectionReason,
		RejectedDate:    doc.RejectedDate,
		Data:            data,
	}
}

// DocumentEntry данные документа при загрузке, url - имя загружаемого файла
type DocumentEntry struct {
	ID   string              `json:"id"`
	Url  string              `json:"url"`
	Data models.DocumentData `json:"data"`
}

type SendForSignature struct {
	OfficerID string `json:"officerId"`
}

func (r SendForSignature) Validate() error {
	if r.OfficerID == "" {
		return errors.New("не указан подписант")
	}
	return nil
}

type Reject struct {
	Reason string `json:"reason"`
}

func (r Reject) Validate() error {
	if r.Reason == "" {
		return errors.New("не указана причина отклонения")
	}
	return nil
}

type Sign struct {
	SignatureID string `json:"signatureId"`
}

type SignAccepted struct {
	JobID string `json:"jobId"`
}

// DocumentPublicView данные документа для проверки по qr коду
type DocumentPublicView struct {
	RequestID    string               `json:"requestId"`
	DocumentID   string               `json:"documentId"`
	TemplateName string               `json:"templateName"`
	SignStatus   models.DocSignStatus `json:"signStatus"`
	SignedDate   *time.Time           `json:"signedDate,omitempty"`
	SignedPath   string               `json:"signedPath,omitempty"`
	SignedHash   string               `json:"signedHash,omitempty"`
	PageCount    int                  `json:"pageCount,omitempty"`
	Data         models.DocumentData  `json:"data"`
}

type JobView struct {
	ID         string           `json:"id"`
	RequestID  string           `json:"requestId"`
	Status     models.JobStatus `json:"status"`
	Attempts   int              `json:"attempts"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	StartedAt  *time.Time       `json:"startedAt,omitempty"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
}

func JobConvert(rec dbmodels.SignJob) JobView {
	return JobView{
		ID:         rec.ID,
		RequestID:  rec.RequestID,
		Status:     rec.Status,
		Attempts:   rec.Attempts,
		Error:      rec.Error,
		CreatedAt:  rec.CreatedAt,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
	}
}
