// Package web wires the fiber application: access log, token verification, handlers,
// check alive and metrics endpoints, plus graceful shutdown.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	accesslog "github.com/userservice/userservice/internal/logger/adapter/fiber"
	"github.com/userservice/userservice/internal/web/handler"
	"github.com/userservice/userservice/internal/web/handler/dashboard"
	"github.com/userservice/userservice/internal/web/handler/login"
	"github.com/userservice/userservice/internal/web/handler/register"
	"github.com/userservice/userservice/internal/web/handler/user"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	authService  *auth.Service
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	go s.WaitShutdown()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while serving and 503 during graceful shutdown.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, authService *auth.Service) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if authService == nil {
		panic("auth service cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				var fe *fiber.Error
				if errors.As(err, &fe) {
					return c.Status(fe.Code).JSON(handler.ErrorBody{Message: fe.Message})
				}

				return handler.Error(c, err)
			},
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		authService:  authService,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Use(recover.New())
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
	}))

	app.Get(cfg.Webserver.CheckAliveURI, service.CheckAlive)

	if cfg.Webserver.EnableMetrics {
		app.Get(cfg.Webserver.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// verify bearer tokens for every following route
	app.Use(auth.Authenticate(authService))

	// init handlers (they register their own routes with authority checks)
	for _, h := range []handler.Service{
		new(login.Service),
		new(register.Service),
		new(user.Service),
		new(dashboard.Service),
	} {
		if err := h.Init(app, cfg, authService); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	return service
}
