// Package app assembles the configuration, logger, services, and HTTP
// router into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"holdcost/internal/auth"
	"holdcost/internal/config"
	"holdcost/internal/infrastructure"
	"holdcost/internal/middleware"
	"holdcost/internal/services"
	handlers "holdcost/internal/transport/http"
	"holdcost/internal/validation"
)

// Application is the assembled service container.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router *chi.Mux
	Server *http.Server
	Gate   *auth.Gate
}

// NewApplication loads configuration and wires all components.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(cfg.Paths.DataDir); err != nil {
		return nil, err
	}

	logger.Info("application starting",
		slog.Int("port", cfg.Server.Port),
		slog.String("data_dir", cfg.Paths.DataDir),
	)

	gate := auth.NewGate(cfg.Credentials.Username, cfg.Credentials.PasswordHash)

	app := &Application{
		Config: cfg,
		Logger: logger,
		Gate:   gate,
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) buildRouter() *chi.Mux {
	cfg := a.Config
	logger := a.Logger

	costService := services.NewCostService(logger)
	coeffService := services.NewCoefficientService(cfg.Paths.DataDir, logger)
	estimateService := services.NewEstimateService(cfg.Paths.DataDir, logger)
	docsService := services.NewDocsService(cfg.Paths.DocsDir, logger)

	maxUpload := cfg.Server.MaxUploadBytes

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Route("/api", func(r chi.Router) {
		handlers.NewAuthHandler(a.Gate, logger).RegisterRoutes(r)

		// Everything except the gate itself requires a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(a.Gate))
			handlers.NewCostHandler(costService, logger, maxUpload).RegisterRoutes(r)
			handlers.NewCoefficientHandler(coeffService, logger, maxUpload).RegisterRoutes(r)
			handlers.NewEstimateHandler(estimateService, logger, maxUpload).RegisterRoutes(r)
			handlers.NewDocsHandler(docsService, logger).RegisterRoutes(r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	a.Logger.Info("server stopped")
	return nil
}
