package signing

import (
	"context"
	"esign-backend/lib/events"
	requeststore "esign-backend/lib/request/store"
	signqueue "esign-backend/lib/signing/queue"
	baseworker "esign-backend/lib/utils/base-worker"
	"esign-backend/lib/utils/helpers"
	pglistener "esign-backend/lib/utils/pg-listener"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Pool пул обработчиков очереди подписания, каждый слот выполняет одну задачу за раз
type Pool struct {
	jobs         signqueue.Provider
	requests     requeststore.Provider
	processor    *Processor
	publisher    events.Publisher
	concurrency  int
	pollInterval time.Duration
	lease        time.Duration
	wakes        []chan struct{}
	workerPrefix string
}

type PoolConfig struct {
	Concurrency  int
	PollInterval time.Duration
	Lease        time.Duration
}

func NewPool(jobs signqueue.Provider, requests requeststore.Provider, processor *Processor,
	publisher events.Publisher, cfg PoolConfig) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 15 * time.Minute
	}
	hostname, _ := os.Hostname()
	wakes := make([]chan struct{}, cfg.Concurrency)
	for idx := range wakes {
		wakes[idx] = make(chan struct{}, 1)
	}
	return &Pool{
		jobs:         jobs,
		requests:     requests,
		processor:    processor,
		publisher:    publisher,
		concurrency:  cfg.Concurrency,
		pollInterval: cfg.PollInterval,
		lease:        cfg.Lease,
		wakes:        wakes,
		workerPrefix: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
	}
}

// Run запускает слоты и подписку на уведомления очереди, блокирует до завершения ctx.
// Без dsn задачи забираются только по таймеру.
func (p *Pool) Run(ctx context.Context, dsn string) error {
	g, gCtx := errgroup.WithContext(ctx)
	for slot := 0; slot < p.concurrency; slot++ {
		g.Go(func() error {
			name := fmt.Sprintf("%s-%d", p.workerPrefix, slot)
			worker := baseworker.NewInstance(fmt.Sprintf("sign-worker-%d", slot), 0, p.pollInterval)
			worker.RunWithWake(gCtx, p.wakes[slot], func(ctx context.Context) {
				p.Drain(ctx, name)
			})
			return nil
		})
	}
	if dsn != "" {
		g.Go(func() error {
			err := pglistener.Listen(gCtx, dsn, signqueue.WakeChannel, func(string) {
				p.Wake()
			})
			if err != nil {
				log.WithError(err).Error("подписка на очередь недоступна, задачи забираются по таймеру")
			}
			return nil
		})
	}
	return g.Wait()
}

// Wake будит все свободные слоты
func (p *Pool) Wake() {
	for _, wake := range p.wakes {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

// Drain выполняет задачи, пока очередь не пуста
func (p *Pool) Drain(ctx context.Context, worker string) {
	for !helpers.IsContextDone(ctx) {
		job, err := p.jobs.Claim(worker, p.lease)
		if err != nil {
			log.WithError(err).WithField("worker", worker).Error("ошибка получения задачи из очереди")
			return
		}
		if job == nil {
			return
		}
		p.runJob(ctx, *job)
	}
}

func (p *Pool) runJob(ctx context.Context, job dbmodels.SignJob) {
	logger := log.
		WithField("job_id", job.ID).
		WithField("request_id", job.RequestID).
		WithField("attempt", job.Attempts)
	logger.Info("задача подписания взята в работу")
	touch := func() {
		if err := p.jobs.Touch(job.ID, p.lease); err != nil {
			logger.WithError(err).Warn("ошибка продления аренды задачи")
		}
	}
	result, err := p.process(ctx, job, touch)
	if err != nil {
		logger.WithError(err).Error("задача подписания завершилась ошибкой")
		if !models.IsKind(err, models.ErrPersistenceFailed) && p.ownsJob(job.ID) {
			if _, rErr := revertRequest(p.requests, p.publisher, job.RequestID, models.SystemUser); rErr != nil {
				logger.WithError(rErr).Error("ошибка возврата заявки на подписание")
			}
		}
		events.SigningFailed(p.publisher, job.RequestID, job.ID, err)
		if fErr := p.jobs.Finish(job.ID, models.JobStatusFailed, err.Error()); fErr != nil {
			logger.WithError(fErr).Error("ошибка сохранения статуса задачи")
		}
		return
	}
	errText := ""
	if result.Failed > 0 {
		errText = fmt.Sprintf("не подписано документов: %d из %d", result.Failed, result.Total)
	}
	if fErr := p.jobs.Finish(job.ID, models.JobStatusDone, errText); fErr != nil {
		logger.WithError(fErr).Error("ошибка сохранения статуса задачи")
	}
}

// ownsJob задача все еще в работе у этого обработчика; после истечения аренды заявкой распоряжается сверка
func (p *Pool) ownsJob(id string) bool {
	job, err := p.jobs.GetByID(id)
	if err != nil {
		log.WithError(err).WithField("job_id", id).Error("ошибка получения задачи подписания")
		return false
	}
	return job != nil && job.Status == models.JobStatusRunning
}

func (p *Pool) process(ctx context.Context, job dbmodels.SignJob, touch func()) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.
				WithField("job_id", job.ID).
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return p.processor.Process(ctx, job, touch)
}
