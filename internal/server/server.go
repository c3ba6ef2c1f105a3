package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/congo-pay/localwallet/internal/config"
	"github.com/congo-pay/localwallet/internal/infra"
	"github.com/congo-pay/localwallet/internal/routes"
	"github.com/congo-pay/localwallet/internal/storage"
)

// Server wraps the Fiber application and the wallet store it serves.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	store *storage.Store
}

// New opens the store on the selected blob backend and wires every route.
func New(ctx context.Context, cfg config.Config, backends *infra.Backends, logger *slog.Logger) (*Server, error) {
	store, err := storage.Open(ctx, backends.Blobs)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          routes.ErrorHandler,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	err = routes.Setup(app, routes.Deps{
		Cfg:      cfg,
		DB:       backends.DB,
		Cache:    backends.Cache,
		Store:    store,
		Logger:   logger,
		Registry: registry,
	})
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	return &Server{app: app, cfg: cfg, store: store}, nil
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown stops accepting requests and drains in-flight ones until ctx
// expires, then closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	httpErr := s.app.ShutdownWithContext(ctx)
	return errors.Join(httpErr, s.store.Close(ctx))
}
