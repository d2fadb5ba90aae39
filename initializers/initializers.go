package initializers

import (
	"context"
	"esign-backend/config"
	"esign-backend/db"
	"esign-backend/fiberlog"
	"esign-backend/lib/assets"
	"esign-backend/lib/converter"
	courtprovider "esign-backend/lib/dicts/court"
	"esign-backend/lib/events"
	xlsexport "esign-backend/lib/export/xls"
	"esign-backend/lib/notify"
	"esign-backend/lib/rbac"
	requesthandler "esign-backend/lib/request"
	"esign-backend/lib/signature"
	"esign-backend/lib/signing"
	templaterenderer "esign-backend/lib/template-renderer"
	"esign-backend/lib/users"
	connectionhub "esign-backend/lib/ws/hub/connection-hub"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

// Publisher канал событий процесса, зависит от режима запуска
var Publisher events.Publisher

func InitAllServices(ctx context.Context) error {
	config.InitConfig()
	LoggerConfig = InitLogger()
	if err := initDB(); err != nil {
		return err
	}
	if err := initStorage(ctx); err != nil {
		return err
	}
	if err := initSmtp(); err != nil {
		return err
	}
	connectionhub.Init()
	Publisher = initPublisher(config.Conf.App.Mode)
	rbac.NewHandler()
	templaterenderer.NewHandler()
	converter.NewHandler()
	assets.NewHandler()
	xlsexport.NewHandler()
	notify.NewHandler()
	courtprovider.NewHandler()
	users.NewHandler()
	signature.NewHandler()
	requesthandler.NewHandler(Publisher)
	signing.NewHandler(Publisher)
	log.WithField("mode", config.Conf.App.Mode).Info("сервисы инициализированы")
	return nil
}

// в режиме worker клиентов websocket нет, события уходят в api через pg_notify
func initPublisher(mode string) events.Publisher {
	if mode == config.ModeWorker {
		return events.NewPgNotify(db.DB)
	}
	return connectionhub.Instance
}
