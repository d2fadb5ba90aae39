package events

import (
	"context"
	"encoding/json"
	"esign-backend/lib/utils/pg-listener"
	wsmodels "esign-backend/models/ws"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Channel канал NOTIFY для событий между процессами worker и api
const Channel = "sign_events"

const timeFormat = "02.01.2006 15:04:05"

type pgNotify struct {
	db *gorm.DB
}

// NewPgNotify публикует события через pg_notify, используется в режиме worker
func NewPgNotify(db *gorm.DB) Publisher {
	return &pgNotify{db: db}
}

func (p pgNotify) Publish(event string, data interface{}) {
	payload, err := json.Marshal(wsmodels.ServerMessage{
		Event: event,
		Time:  time.Now().Format(timeFormat),
		Data:  data,
	})
	if err != nil {
		log.WithError(err).WithField("event", event).Error("ошибка сериализации события")
		return
	}
	err = p.db.Exec("SELECT pg_notify(?, ?)", Channel, string(payload)).Error
	if err != nil {
		log.WithError(err).WithField("event", event).Error("ошибка публикации события")
	}
}

// Relay пересылает события из канала postgres в target, блокирует до завершения ctx
func Relay(ctx context.Context, dsn string, target Publisher) error {
	return pglistener.Listen(ctx, dsn, Channel, func(payload string) {
		if payload == "" {
			return
		}
		msg := struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}{}
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			log.WithError(err).Warn("некорректное событие в канале")
			return
		}
		target.Publish(msg.Event, msg.Data)
	})
}
