package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		Mode        string `default:"all" env:"APP_MODE"` // all / api / worker
		FrontendURL string `default:"http://localhost:3000" env:"FRONTEND_URL"`
		BodyLimitMb int    `default:"100" env:"APP_BODY_LIMIT_MB"`
		LogLevel    string `default:"info" env:"APP_LOG_LEVEL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"esign" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		MaxOpenConns   int    `default:"20" env:"DB_MAX_OPEN_CONNS"`
	}
	Auth struct {
		JWTSecret      string `default:"secret" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Storage struct {
		Type string `default:"local" env:"STORAGE_TYPE"` // local / s3
		Root string `default:"./uploads" env:"STORAGE_ROOT"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"esign" env:"S3_BUCKET_NAME"`
	}
	Signing struct {
		Concurrency          int    `default:"3" env:"SIGNING_CONCURRENCY"`
		PollIntervalSec      int    `default:"5" env:"SIGNING_POLL_INTERVAL_SEC"`
		LeaseSec             int    `default:"900" env:"SIGNING_LEASE_SEC"`
		StuckTimeoutSec      int    `default:"1800" env:"SIGNING_STUCK_TIMEOUT_SEC"`
		ReconcileIntervalSec int    `default:"300" env:"SIGNING_RECONCILE_INTERVAL_SEC"`
		DefaultCourtName     string `default:"Unknown Court" env:"SIGNING_DEFAULT_COURT_NAME"`
		QRSize               int    `default:"256" env:"SIGNING_QR_SIZE"`
	}
	Converter struct {
		Binary      string `default:"soffice" env:"CONVERTER_BINARY"`
		TimeoutSec  int    `default:"120" env:"CONVERTER_TIMEOUT_SEC"`
		MaxParallel int    `default:"3" env:"CONVERTER_MAX_PARALLEL"`
	}
	Export struct {
		FontDir  string `default:"static/font/" env:"EXPORT_FONT_DIR"`
		FontFile string `default:"" env:"EXPORT_FONT_FILE"` // ttf с кириллицей, если пусто - встроенный шрифт
	}
	Admin struct {
		Email string `default:"" env:"ADMIN_EMAIL"`
		Name  string `default:"Администратор" env:"ADMIN_NAME"`
	}
	Smtp struct {
		From       string `default:"" env:"SMTP_FROM"`
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
