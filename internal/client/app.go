// Package client assembles the sync engine: storage, transport, services,
// connectivity monitor and background jobs, wired in dependency order and
// torn down in reverse.
package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalistyle/synckit/internal/adapter"
	"github.com/dalistyle/synckit/internal/config"
	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/internal/netmon"
	"github.com/dalistyle/synckit/internal/service"
	"github.com/dalistyle/synckit/internal/store"
	"github.com/dalistyle/synckit/internal/workers"
)

// App owns the engine's components for one process lifetime.
type App struct {
	services *service.ClientServices
	storages *store.ClientStorages
	workers  *workers.Workers
	logger   *logger.Logger
}

// NewApp builds the full engine from cfg. The connectivity monitor is wired
// with the sync trigger so a recovered connection immediately starts a
// reconciliation pass.
func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	status := service.NewStatusSurface()
	probe := netmon.NewHTTPProbe(cfg.Adapter.HTTPAddress, cfg.Netmon.ProbeInterval)

	// Monitor and services need each other: the services check Online(),
	// the monitor fires the sync trigger. The monitor is created first with
	// a late-bound trigger closure.
	var services *service.ClientServices
	monitor := netmon.NewMonitor(cfg.Netmon, probe, status, func() {
		if _, err := services.SyncService.TriggerSync(context.Background()); err != nil {
			log.Debug().Err(err).Str("func", "NewApp").Msg("reconnect sync failed")
		}
	}, log)

	services = service.NewClientServices(storages, serverAdapter, monitor, status, log)

	syncJob := workers.NewSyncJob(services.SyncService, cfg.Workers.SyncInterval, log)

	return &App{
		services: services,
		storages: storages,
		workers:  workers.NewWorkers(monitor, syncJob),
		logger:   log,
	}, nil
}

// Services exposes the wired service layer to embedding callers (the UI
// host process).
func (a *App) Services() *service.ClientServices {
	return a.services
}

// Run starts the background workers, attempts an initial sync, and blocks
// until the process receives an interrupt or termination signal.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.workers.StartAll(ctx)
	defer a.workers.StopAll()
	defer a.storages.Close()

	// Best effort: with no connectivity the queue and the periodic job
	// pick the work up later.
	if err := a.services.SyncService.InitialSync(ctx); err != nil {
		a.logger.Warn().Err(err).Str("func", "Run").Msg("initial sync failed")
	}

	<-ctx.Done()
	a.logger.Info().Str("func", "Run").Msg("shutting down")
	return nil
}
