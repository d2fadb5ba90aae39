package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
}

func NewInstance(WorkerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	return &BaseImpl{
		WorkerName:    WorkerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	logger := log.
		WithField("worker_name", i.WorkerName)
	return logger
}

// Run запускает jobFunc с периодом runInterval до завершения ctx
func (i BaseImpl) Run(ctx context.Context, jobFunc func(ctx context.Context)) {
	i.RunWithWake(ctx, nil, jobFunc)
}

// RunWithWake как Run, дополнительно запускает jobFunc по сигналу wake
func (i BaseImpl) RunWithWake(ctx context.Context, wake <-chan struct{}, jobFunc func(ctx context.Context)) {
	period := i.firstRunDelay
	logger := i.GetLogger()
	for {
		timer := time.NewTimer(period)
		select {
		// проверяем не завершён ли ещё контекст и выходим, если завершён
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Задача остановлена")
			return
		case <-timer.C:
		case <-wake:
			timer.Stop()
		}
		logger.Debug("Задача запущена")
		i.safeRun(ctx, jobFunc)
		logger.Debug("Задача выполнена")
		period = i.runInterval
	}
}

// safeRun паника в задаче не останавливает цикл
func (i BaseImpl) safeRun(ctx context.Context, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			i.GetLogger().
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	jobFunc(ctx)
}
