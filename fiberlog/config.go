package fiberlog

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Config настройки журнала запросов
type Config struct {
	// Logger nil - стандартный журнал logrus
	Logger *logrus.Logger
	Tags   []string
	// SkipPaths префиксы путей без записи в журнал
	SkipPaths []string
}

var ConfigDefault = Config{
	Tags: []string{
		TagMethod,
		TagPath,
		TagStatus,
		TagLatency,
		RequestID,
	},
}

func (c Config) skip(path string) bool {
	for _, prefix := range c.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
