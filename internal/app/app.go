package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cardpark/internal/config"
	"cardpark/internal/health"
	"cardpark/internal/observability"

	"golang.org/x/sync/errgroup"
)

// App bundles the running service: HTTP server, observability runtime
// and readiness probes, with an optional stop callback for background
// tasks.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Readiness     *health.ProbeRunner

	stop func()
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, readiness *health.ProbeRunner, stop func()) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		Readiness:     readiness,
		stop:          stop,
	}
}

func (a *App) StopBackgroundTasks() {
	if a.stop != nil {
		a.stop()
	}
}

// Run serves until ctx is cancelled, then drains the HTTP server and
// flushes the observability pipeline.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.StopBackgroundTasks()

		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Server.Shutdown(drainCtx); err != nil {
			a.Logger.Warn("http drain failed", "error", err)
		}

		obsCtx, cancelObs := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelObs()
		if err := a.Observability.Shutdown(obsCtx); err != nil {
			a.Logger.Warn("observability shutdown failed", "error", err)
		}
		return nil
	})

	return g.Wait()
}
