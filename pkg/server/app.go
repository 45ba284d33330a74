package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TapeReader/internal/domain/repository"
	"TapeReader/internal/handler/api"
	"TapeReader/internal/usecase"
	"TapeReader/pkg/config"
	xhttp "TapeReader/pkg/http"
	applogger "TapeReader/pkg/logger"
)

// App encapsulates the entire application lifecycle: the decision loop, the
// render countdown and the HTTP surface.
type App struct {
	cfg        *config.Config
	cycle      *usecase.Cycle
	source     repository.PriceSource
	pub        repository.Publisher
	mirror     repository.SnapshotMirror
	log        *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	cycle *usecase.Cycle,
	source repository.PriceSource,
	pub repository.Publisher,
	mirror repository.SnapshotMirror,
	log *applogger.Logger,
) *App {
	return &App{
		cfg:    cfg,
		cycle:  cycle,
		source: source,
		pub:    pub,
		mirror: mirror,
		log:    log,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := api.NewSnapshotEchoHandler(a.log, a.cycle, 2*a.cfg.Engine.FetchInterval)
	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)

	go a.loop(ctx)
	a.log.Info("engine started",
		applogger.String("pair", a.cfg.Source.Pair),
		applogger.String("source", a.cfg.Source.Type),
		applogger.Duration("fetch_interval", a.cfg.Engine.FetchInterval),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// loop drives the two clocks of the engine. The fetch tick runs a full
// decision cycle; the render tick only refreshes the countdown and never
// touches channel hold timers.
func (a *App) loop(ctx context.Context) {
	a.cycle.RunCycle(ctx)

	fetch := time.NewTicker(a.cfg.Engine.FetchInterval)
	defer fetch.Stop()
	render := time.NewTicker(a.cfg.Engine.RenderInterval)
	defer render.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fetch.C:
			a.cycle.RunCycle(ctx)
		case <-render.C:
			a.cycle.RenderTick()
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.source.Close(); err != nil {
		a.log.Warn("price source close error", applogger.Error(err))
	}
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.mirror != nil {
		if err := a.mirror.Close(); err != nil {
			a.log.Warn("mirror close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
