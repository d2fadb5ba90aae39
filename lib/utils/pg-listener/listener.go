package pglistener

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const pingInterval = 90 * time.Second

// Listen подписывается на канал postgres LISTEN и вызывает handler на каждое уведомление.
// Пустой payload передается после переподключения, чтобы подписчик мог перечитать состояние.
// Блокирует до завершения ctx.
func Listen(ctx context.Context, dsn, channel string, handler func(payload string)) error {
	logger := log.WithField("pg_channel", channel)
	listener := pq.NewListener(dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.WithError(err).Warn("ошибка соединения LISTEN")
		}
	})
	defer func() {
		if err := listener.Close(); err != nil {
			logger.WithError(err).Warn("ошибка закрытия LISTEN")
		}
	}()
	if err := listener.Listen(channel); err != nil {
		return errors.Wrapf(err, "ошибка подписки на канал %s", channel)
	}
	logger.Info("подписка на канал оформлена")
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-listener.Notify:
			if !ok {
				return errors.New("канал уведомлений закрыт")
			}
			if n == nil {
				// соединение восстановлено, часть уведомлений могла быть потеряна
				handler("")
				continue
			}
			handler(n.Extra)
		case <-ticker.C:
			if err := listener.Ping(); err != nil {
				logger.WithError(err).Warn("ошибка проверки соединения LISTEN")
			}
		}
	}
}
