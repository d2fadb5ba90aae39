package db

import (
	"context"
	"fmt"
	"time"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN строка подключения, используется также для LISTEN/NOTIFY
var DSN string

type Params struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	// MaxOpenConns 0 - без ограничения
	MaxOpenConns int
	Debug        bool
	Migrate      bool
}

func (p Params) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s",
		p.Host, p.Port, p.User, p.Name, p.Password)
}

func Connect(params Params) error {
	if DB != nil {
		return nil
	}
	dsn := params.DSN()
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return errors.Wrap(err, "ошибка подключения к БД")
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return errors.Wrap(err, "ошибка получения пула соединений")
	}
	if params.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(params.MaxOpenConns)
		sqlDB.SetMaxIdleConns(params.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	if params.Debug {
		conn.Logger = logger.Default.LogMode(logger.Info)
		conn = conn.Debug()
	}
	DB = conn
	DSN = dsn
	if params.Migrate {
		if err = AutoMigrateDB(); err != nil {
			return err
		}
	}
	log.WithField("db_host", params.Host).Info("сервис подключен к БД")
	return nil
}

func PingDB(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
