package converter

import (
	"bytes"
	"context"
	"esign-backend/config"
	"esign-backend/lib/utils/lock"
	"esign-backend/models"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// ToPDF конвертирует документ (docx) в pdf, блокирующая и долгая операция
	ToPDF(ctx context.Context, source []byte, sourceExt string) ([]byte, error)
}

var Instance Provider

func init() {
	api.DisableConfigDir()
}

func NewHandler() {
	Instance = NewInstance(config.Conf.Converter.Binary,
		time.Duration(config.Conf.Converter.TimeoutSec)*time.Second,
		config.Conf.Converter.MaxParallel)
}

func NewInstance(binary string, timeout time.Duration, maxParallel int) Provider {
	return &impl{
		binary:   binary,
		timeout:  timeout,
		resource: lock.NewResourceLock(maxParallel),
	}
}

type impl struct {
	binary   string
	timeout  time.Duration
	resource *lock.ResourceLock
}

func (i impl) ToPDF(ctx context.Context, source []byte, sourceExt string) ([]byte, error) {
	logger := log.WithField("converter", i.binary)
	if !i.resource.Acquire(ctx) {
		return nil, models.ConversionFailed(ctx.Err(), "конвертация отменена")
	}
	defer i.resource.Release()

	workDir, err := os.MkdirTemp("", "esign-convert-*")
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания рабочего каталога")
	}
	defer os.RemoveAll(workDir)

	if sourceExt == "" {
		sourceExt = ".docx"
	}
	inPath := filepath.Join(workDir, "source"+sourceExt)
	if err = os.WriteFile(inPath, source, 0o600); err != nil {
		return nil, errors.Wrap(err, "ошибка записи исходного документа")
	}
	outDir := filepath.Join(workDir, "out")
	if err = os.MkdirAll(outDir, 0o700); err != nil {
		return nil, errors.Wrap(err, "ошибка создания рабочего каталога")
	}
	// отдельный профиль, параллельные запуски soffice не делят блокировку профиля
	profileDir := filepath.Join(workDir, "profile")

	runCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	cmd := exec.CommandContext(runCtx, i.binary,
		"--headless",
		"--norestore",
		"-env:UserInstallation=file://"+filepath.ToSlash(profileDir),
		"--convert-to", "pdf",
		"--outdir", outDir,
		inPath,
	)
	output := new(bytes.Buffer)
	cmd.Stdout = output
	cmd.Stderr = output
	cmd.WaitDelay = 5 * time.Second
	started := time.Now()
	err = cmd.Run()
	logger = logger.WithField("duration", time.Since(started).String())
	if err != nil {
		diagnostic := output.String()
		if runCtx.Err() == context.DeadlineExceeded {
			diagnostic = "превышено время конвертации " + i.timeout.String() + " " + diagnostic
		}
		logger.WithError(err).Warn("ошибка конвертации документа")
		return nil, models.ConversionFailed(err, diagnostic)
	}

	pdf, err := os.ReadFile(filepath.Join(outDir, "source.pdf"))
	if err != nil {
		return nil, models.ConversionFailed(err, "результат конвертации не найден: "+strings.TrimSpace(output.String()))
	}
	if err = Validate(pdf); err != nil {
		return nil, models.ConversionFailed(err, "результат конвертации не является корректным pdf")
	}
	logger.Debug("документ сконвертирован")
	return pdf, nil
}

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Validate проверяет структуру pdf
func Validate(pdf []byte) error {
	return api.Validate(bytes.NewReader(pdf), pdfConfig())
}

// PageCount количество страниц pdf
func PageCount(pdf []byte) (int, error) {
	return api.PageCount(bytes.NewReader(pdf), pdfConfig())
}
