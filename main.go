package main

import (
	"context"
	"esign-backend/config"
	apiv1 "esign-backend/controllers/v1"
	"esign-backend/controllers/v1/dict"
	publicapi "esign-backend/controllers/v1/public"
	"esign-backend/fiberlog"
	"esign-backend/initializers"
	"esign-backend/lib/ws"
	"esign-backend/middleware"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := initializers.InitAllServices(ctx); err != nil {
		log.WithError(err).Fatal("ошибка инициализации сервиса")
	}
	mode := config.Conf.App.Mode

	g, gCtx := errgroup.WithContext(ctx)
	if mode != config.ModeWorker {
		app := newApp()
		g.Go(func() error {
			return app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port))
		})
		g.Go(func() error {
			<-gCtx.Done()
			log.Info("Gracefully shutting down...")
			return app.ShutdownWithTimeout(10 * time.Second)
		})
	}
	if mode != config.ModeAPI {
		g.Go(func() error {
			return initializers.RunWorkers(gCtx)
		})
	}
	if mode == config.ModeAPI {
		g.Go(func() error {
			return initializers.RunEventRelay(gCtx)
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("сервис остановлен с ошибкой")
	}
	log.Info("Gracefully shutting down finished")
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.BodyLimitMb * 1024 * 1024,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())

	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: swaggerFile,
		}))
	} else {
		log.Warn("swagger.json не найден, документация api недоступна")
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PATCH, DELETE, PUT",
		ExposeHeaders: "Content-Disposition",
	}))
	app.Mount("/api/v1", apiV1)

	//public
	public := fiber.New()
	apiV1.Mount("/public", public)
	publicapi.InitPublicDocumentRouters(public)
	publicapi.InitHealthRouters(public)

	//ws
	wsRouter := apiV1.Group("/ws", middleware.AuthorizationRequired())
	ws.InitWs(wsRouter)

	//dict
	dicts := fiber.New()
	apiV1.Mount("/dict", dicts)
	dicts.Use(middleware.AuthorizationRequired())
	dicts.Use(middleware.RbacMiddleware())
	dict.InitCourtDictApiRouters(dicts)
	dict.InitRoleDictApiRouters(dicts)

	//основное api
	secured := func(prefix string) fiber.Router {
		return apiV1.Group(prefix, middleware.AuthorizationRequired(), middleware.RbacMiddleware())
	}
	apiv1.InitProfileApiRouters(secured("/me"))
	apiv1.InitUserApiRouters(secured("/users"))
	apiv1.InitRequestApiRouters(secured("/requests"))
	apiv1.InitJobApiRouters(secured("/jobs"))
	apiv1.InitSignatureApiRouters(secured("/signatures"))
	return app
}
