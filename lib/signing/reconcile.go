package signing

import (
	"context"
	"esign-backend/lib/events"
	requeststore "esign-backend/lib/request/store"
	signqueue "esign-backend/lib/signing/queue"
	baseworker "esign-backend/lib/utils/base-worker"
	"esign-backend/lib/utils/helpers"
	"esign-backend/models"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Reconciler возвращает на подписание заявки, зависшие в inProcess без активной задачи
type Reconciler struct {
	requests     requeststore.Provider
	jobs         signqueue.Provider
	publisher    events.Publisher
	stuckTimeout time.Duration
	now          func() time.Time
}

type SweepReport struct {
	ExpiredJobs []string `json:"expiredJobs"`
	Reverted    []string `json:"reverted"`
}

func NewReconciler(requests requeststore.Provider, jobs signqueue.Provider, publisher events.Publisher, stuckTimeout time.Duration) *Reconciler {
	return &Reconciler{
		requests:     requests,
		jobs:         jobs,
		publisher:    publisher,
		stuckTimeout: stuckTimeout,
		now:          time.Now,
	}
}

func (r *Reconciler) Sweep(ctx context.Context) (SweepReport, error) {
	report := SweepReport{}
	now := r.now()
	expired, err := r.jobs.ExpireLeases(now)
	if err != nil {
		return report, errors.Wrap(err, "ошибка снятия просроченных задач")
	}
	candidates := make([]string, 0, len(expired))
	for _, job := range expired {
		log.
			WithField("job_id", job.ID).
			WithField("request_id", job.RequestID).
			WithField("worker", job.Worker).
			Warn("аренда задачи истекла, задача снята")
		report.ExpiredJobs = append(report.ExpiredJobs, job.ID)
		events.SigningFailed(r.publisher, job.RequestID, job.ID, errors.New("обработчик задачи не отвечает"))
		candidates = append(candidates, job.RequestID)
	}
	stuck, err := r.requests.ListStuck(models.SignStatusInProcess, now.Add(-r.stuckTimeout))
	if err != nil {
		return report, errors.Wrap(err, "ошибка получения зависших заявок")
	}
	for _, rec := range stuck {
		candidates = append(candidates, rec.ID)
	}

	seen := map[string]bool{}
	for _, requestID := range candidates {
		if seen[requestID] || helpers.IsContextDone(ctx) {
			continue
		}
		seen[requestID] = true
		outstanding, err := r.jobs.HasOutstanding(requestID)
		if err != nil {
			return report, errors.Wrap(err, "ошибка проверки задач заявки")
		}
		if outstanding {
			continue
		}
		ok, err := revertRequest(r.requests, r.publisher, requestID, models.SystemUser)
		if err != nil {
			return report, err
		}
		if ok {
			report.Reverted = append(report.Reverted, requestID)
		}
	}
	return report, nil
}

// StartWorker периодическая сверка до завершения ctx
func (r *Reconciler) StartWorker(ctx context.Context, interval time.Duration) {
	worker := baseworker.NewInstance("sign-reconciler", interval, interval)
	worker.Run(ctx, func(ctx context.Context) {
		report, err := r.Sweep(ctx)
		if err != nil {
			worker.GetLogger().WithError(err).Error("ошибка сверки заявок")
			return
		}
		if len(report.ExpiredJobs) > 0 || len(report.Reverted) > 0 {
			worker.GetLogger().
				WithField("expired_jobs", len(report.ExpiredJobs)).
				WithField("reverted", len(report.Reverted)).
				Info("сверка заявок выполнена")
		}
	})
}
