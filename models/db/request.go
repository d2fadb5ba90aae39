package dbmodels

import (
	"database/sql/driver"
	"esign-backend/models"
	"time"
)

type Request struct {
	BaseModel
	TemplateName      string              `gorm:"type:varchar(255)"`
	Description       string              `gorm:"type:text"`
	Url               string              `gorm:"type:varchar(512)"` // ключ шаблона в хранилище
	TemplateVariables TemplateVariables   `gorm:"type:jsonb"`
	SignStatus        models.SignStatus   `gorm:"type:varchar(32);index"`
	Status            models.RecordStatus `gorm:"type:varchar(16);index"`
	CreatedBy         string              `gorm:"type:varchar(36);index"`
	AssignedTo        *string             `gorm:"type:varchar(36);index"`
	DelegatedTo       *string             `gorm:"type:varchar(36)"`
	UpdatedBy         string              `gorm:"type:varchar(36)"`
	RejectionReason   string              `gorm:"type:text"`
	Data              Documents           `gorm:"type:jsonb"`
	Version           int                 `gorm:"not null;default:0"`
}

func (r Request) IsCreator(userID string) bool {
	return r.CreatedBy == userID
}

func (r Request) IsAssignedTo(userID string) bool {
	return r.AssignedTo != nil && *r.AssignedTo == userID
}

func (r Request) FindDocument(docID string) (int, *Document) {
	for idx := range r.Data {
		if r.Data[idx].ID == docID {
			return idx, &r.Data[idx]
		}
	}
	return -1, nil
}

// CountByStatus количество документов в статусе
func (r Request) CountByStatus(status models.DocSignStatus) int {
	count := 0
	for _, doc := range r.Data {
		if doc.SignStatus == status {
			count++
		}
	}
	return count
}

type Document struct {
	ID              string               `json:"id"`
	Url             string               `json:"url"`
	Data            models.DocumentData  `json:"data"`
	SignStatus      models.DocSignStatus `json:"signStatus"`
	SignedPath      string               `json:"signedPath,omitempty"`
	QrCodePath      string               `json:"qrCodePath,omitempty"`
	SignedHash      string               `json:"signedHash,omitempty"`
	PageCount       int                  `json:"pageCount,omitempty"`
	SignError       string               `json:"signError,omitempty"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	RejectedDate    *time.Time           `json:"rejectedDate,omitempty"`
	SignedDate      *time.Time           `json:"signedDate,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// Name отображаемое имя документа
func (d Document) Name() string {
	if v, ok := d.Data.Get("name"); ok && !v.IsEmpty() {
		return v.String()
	}
	return "Document"
}

type Documents []Document

func (j Documents) Value() (driver.Value, error) {
	if j == nil {
		return jsonValue(nil, "[]")
	}
	return jsonValue(j, "[]")
}

func (j *Documents) Scan(value any) error {
	return scanJSON(value, j)
}

// Clone копия списка документов, данные документов копируются
func (j Documents) Clone() Documents {
	result := make(Documents, 0, len(j))
	for _, doc := range j {
		doc.Data = doc.Data.Clone()
		result = append(result, doc)
	}
	return result
}

type TemplateVariables []models.TemplateVariable

func (j TemplateVariables) Value() (driver.Value, error) {
	if j == nil {
		return jsonValue(nil, "[]")
	}
	return jsonValue(j, "[]")
}

func (j *TemplateVariables) Scan(value any) error {
	return scanJSON(value, j)
}
