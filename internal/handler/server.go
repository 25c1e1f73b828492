package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trends-search/internal/service"
	"trends-search/pkg/logger"
	"trends-search/pkg/metrics"
	"trends-search/pkg/volume"
)

// Options configures the HTTP server
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// Server wraps the fiber application serving the form and the JSON API
type Server struct {
	app  *fiber.App
	addr string
	log  *logger.Logger
}

// NewServer wires routes and middleware. health may be nil.
func NewServer(searcher volume.Searcher, health service.HealthService, opts Options) *Server {
	log := logger.GetLogger().WithField("component", "http_server")

	app := fiber.New(fiber.Config{
		AppName:               "trends-search",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(accessLog(log))

	h := NewHandler(searcher, health, opts.RequestTimeout)
	h.Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return &Server{app: app, addr: opts.Addr, log: log}
}

// App exposes the fiber application, mainly for app.Test in tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks serving until Shutdown is called
func (s *Server) Start() error {
	s.log.WithField("addr", s.addr).Info("HTTP server listening")
	if err := s.app.Listen(s.addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func accessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		log.Zerolog().Info().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")

		return err
	}
}
