package initializers

import (
	"esign-backend/config"
	"esign-backend/fiberlog"
	"esign-backend/middleware"

	log "github.com/sirupsen/logrus"
)

var jsonFormatter = &log.JSONFormatter{
	FieldMap: log.FieldMap{
		log.FieldKeyTime: "@timestamp",
		log.FieldKeyMsg:  "message",
	},
}

// InitLogger настраивает общий журнал и журнал запросов api
func InitLogger() *fiberlog.Config {
	log.SetFormatter(jsonFormatter)
	level, err := log.ParseLevel(config.Conf.App.LogLevel)
	if err != nil {
		log.WithError(err).Warn("неверный уровень журнала, используется info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	accessLogger := log.New()
	accessLogger.SetFormatter(jsonFormatter)
	accessLogger.SetLevel(level)
	fiberlog.UserIDFunc = middleware.GetUserID
	return &fiberlog.Config{
		Logger: accessLogger,
		Tags: []string{
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagUserID,
			fiberlog.RequestID,
		},
		SkipPaths: []string{"/swagger", "/api/v1/public/health"},
	}
}
