package api

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/curadda/digestbot/internal/digest"
	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

func NewServer(cfg Config, log logger.Logger, runner Runner) Server {
	serveLog := log.With("api_http_server")

	fiberCfg := fiber.Config{
		ReadTimeout:             cfg.HTTP.ReadTimeout,
		WriteTimeout:            cfg.HTTP.WriteTimeout,
		IdleTimeout:             cfg.HTTP.IdleTimeout,
		DisableStartupMessage:   true,
		EnableTrustedProxyCheck: true,
		ProxyHeader:             cfg.Proxy.Header,
		TrustedProxies:          cfg.Proxy.Trusted,
		RequestMethods:          []string{fiber.MethodGet, fiber.MethodHead, fiber.MethodPost},
	}

	fiberCfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		serveLog.Warn(errors.WrapFail(err, "handle http request"))
		return c.Status(http.StatusInternalServerError).Send(nil)
	}

	s := &server{
		runner: runner,
		http:   fiber.New(fiberCfg),
		addr:   cfg.HTTP.Addr,
		log:    serveLog,
	}

	s.setupRoutes()

	return s
}

type server struct {
	runner Runner
	http   *fiber.App
	addr   string
	log    logger.Logger
}

func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error)
	go func() { errCh <- s.http.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return errors.Error("serve context done")
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	err := s.http.ShutdownWithContext(ctx)
	return errors.WrapFail(err, "shutdown http server")
}

func (s *server) setupRoutes() {
	s.http.Get("/healthz", s.handleHealth)
	s.http.Get("/status", s.handleStatus)
	s.http.Post("/run", s.handleRun)
}

func (s *server) handleHealth(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).SendString("OK")
}

func (s *server) handleStatus(c *fiber.Ctx) error {
	last, ok := s.runner.Last()
	if !ok {
		return s.sendError(c, http.StatusNotFound, "no digest runs yet")
	}

	return c.Status(http.StatusOK).JSON(last)
}

func (s *server) handleRun(c *fiber.Ctx) error {
	report, err := s.runner.TryRun(c.Context())
	if err != nil {
		if errors.Is(err, digest.ErrBusy) {
			return s.sendError(c, http.StatusConflict, "digest run already in progress")
		}
		return errors.WrapFail(err, "run digest")
	}

	return c.Status(http.StatusOK).JSON(report)
}

func (s *server) sendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(map[string]string{"status": "ERROR", "message": msg})
}
