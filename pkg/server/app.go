// Package server owns the application lifecycle: HTTP serving, the polling
// controller, and graceful shutdown on signal.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"WatchPulse/internal/domain/repository"
	"WatchPulse/internal/usecase"
	"WatchPulse/pkg/config"
	xhttp "WatchPulse/pkg/http"
	applogger "WatchPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	poller     *usecase.Poller
	notifier   repository.Notifier
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	poller *usecase.Poller,
	notifier repository.Notifier,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		handler:  handler,
		poller:   poller,
		notifier: notifier,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	a.poller.Start(ctx)
	a.log.Info("poller started",
		applogger.Duration("base_interval", a.cfg.Poll.BaseInterval),
		applogger.Duration("max_interval", a.cfg.Poll.MaxInterval),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.poller.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.notifier.Close(); err != nil {
		a.log.Warn("notifier close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
