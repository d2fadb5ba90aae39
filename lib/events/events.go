package events

import (
	"esign-backend/models"
	wsmodels "esign-backend/models/ws"
)

// Publisher канал событий для интерфейса, доставка не гарантируется
type Publisher interface {
	Publish(event string, data interface{})
}

func SigningProgress(p Publisher, requestID string, current, total int) {
	p.Publish(wsmodels.EventSigningRequest, wsmodels.SigningProgress{
		RequestID: requestID,
		Current:   current,
		Total:     total,
	})
}

func StatusUpdate(p Publisher, requestID string, status models.SignStatus) {
	p.Publish(wsmodels.EventRequestStatusUpdate, wsmodels.RequestStatusUpdate{
		RequestID: requestID,
		Status:    string(status),
	})
}

func SigningFailed(p Publisher, requestID, jobID string, err error) {
	p.Publish(wsmodels.EventSigningFailed, wsmodels.SigningFailed{
		RequestID: requestID,
		JobID:     jobID,
		Error:     err.Error(),
	})
}

// Fanout публикует событие во все каналы
type Fanout []Publisher

func (f Fanout) Publish(event string, data interface{}) {
	for _, p := range f {
		p.Publish(event, data)
	}
}
