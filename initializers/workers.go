package initializers

import (
	"context"
	"esign-backend/config"
	"esign-backend/db"
	"esign-backend/lib/assets"
	"esign-backend/lib/converter"
	courtstore "esign-backend/lib/dicts/court/store"
	"esign-backend/lib/events"
	filestorage "esign-backend/lib/file-storage"
	"esign-backend/lib/notify"
	requeststore "esign-backend/lib/request/store"
	signaturestore "esign-backend/lib/signature/store"
	"esign-backend/lib/signing"
	signqueue "esign-backend/lib/signing/queue"
	templaterenderer "esign-backend/lib/template-renderer"
	connectionhub "esign-backend/lib/ws/hub/connection-hub"
	"time"

	"golang.org/x/sync/errgroup"
)

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}

// NewReconciler сверка зависших заявок, используется также в signctl
func NewReconciler(publisher events.Publisher) *signing.Reconciler {
	return signing.NewReconciler(requeststore.NewInstance(db.DB), signqueue.NewInstance(db.DB), publisher,
		seconds(config.Conf.Signing.StuckTimeoutSec))
}

// RunWorkers пул подписания и сверка заявок, блокирует до завершения ctx
func RunWorkers(ctx context.Context) error {
	requests := requeststore.NewInstance(db.DB)
	jobs := signqueue.NewInstance(db.DB)
	processor := signing.NewProcessor(signing.ProcessorDeps{
		Requests:     requests,
		Signatures:   signaturestore.NewInstance(db.DB),
		Courts:       courtstore.NewInstance(db.DB),
		Storage:      filestorage.Instance,
		Renderer:     templaterenderer.Instance,
		Converter:    converter.Instance,
		Assets:       assets.Instance,
		Publisher:    Publisher,
		Notifier:     notify.Instance,
		DefaultCourt: config.Conf.Signing.DefaultCourtName,
	})
	pool := signing.NewPool(jobs, requests, processor, Publisher, signing.PoolConfig{
		Concurrency:  config.Conf.Signing.Concurrency,
		PollInterval: seconds(config.Conf.Signing.PollIntervalSec),
		Lease:        seconds(config.Conf.Signing.LeaseSec),
	})
	reconciler := NewReconciler(Publisher)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pool.Run(gCtx, db.DSN)
	})
	g.Go(func() error {
		reconciler.StartWorker(gCtx, seconds(config.Conf.Signing.ReconcileIntervalSec))
		return nil
	})
	return g.Wait()
}

// RunEventRelay пересылает события удаленных worker в websocket, режим api
func RunEventRelay(ctx context.Context) error {
	return events.Relay(ctx, db.DSN, connectionhub.Instance)
}
