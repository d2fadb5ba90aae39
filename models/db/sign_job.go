package dbmodels

import (
	"esign-backend/models"
	"time"
)

// SignJob задача подписания заявки
type SignJob struct {
	BaseModel
	RequestID   string           `gorm:"type:varchar(36);index"`
	UserID      string           `gorm:"type:varchar(36)"`
	SignatureID string           `gorm:"type:varchar(36)"`
	CourtID     string           `gorm:"type:varchar(36)"`
	Status      models.JobStatus `gorm:"type:varchar(16);index"`
	Attempts    int
	Error       string `gorm:"type:text"`
	Worker      string `gorm:"type:varchar(128)"`
	LeaseUntil  *time.Time
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

func (j SignJob) Payload() models.SignJobPayload {
	return models.SignJobPayload{
		RequestID:   j.RequestID,
		UserID:      j.UserID,
		SignatureID: j.SignatureID,
		CourtID:     j.CourtID,
	}
}
