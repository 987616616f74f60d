package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/gofrs/flock"

	"mediadock/internal/config"
	"mediadock/internal/images"
	"mediadock/internal/logging"
	"mediadock/internal/metrics"
	"mediadock/internal/notifications"
	"mediadock/internal/relay"
	"mediadock/internal/server"
	"mediadock/internal/store"
)

// Daemon runs the HTTP surfaces and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	listeners []*server.Listener

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// SurfaceStatus describes one configured HTTP surface.
type SurfaceStatus struct {
	Name    string
	Bind    string
	Address string
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LockFilePath string
	Surfaces     []SurfaceStatus
	Images       store.ImageStats
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, reg *metrics.Registry) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	deps := server.Deps{
		Config:  cfg,
		Images:  images.NewService(st, cfg.Paths.MediaRoot, logger, reg),
		Tokens:  st,
		Relay:   relay.New(notifications.NewService(cfg), logger, reg),
		Metrics: reg,
		Logger:  logger,
	}

	var listeners []*server.Listener
	for _, surface := range []struct {
		name    string
		bind    string
		handler func(server.Deps) http.Handler
	}{
		{server.SurfaceStorage, cfg.Storage.Bind, server.NewStorageHandler},
		{server.SurfaceRelay, cfg.Relay.Bind, server.NewRelayHandler},
		{server.SurfaceWeb, cfg.Web.Bind, server.NewWebHandler},
	} {
		if l := server.NewListener(surface.name, surface.bind, surface.handler(deps), logger); l != nil {
			listeners = append(listeners, l)
		}
	}
	if len(listeners) == 0 {
		return nil, errors.New("no surface has a bind address")
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     st,
		listeners: listeners,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and starts every configured surface.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mediadock instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	for i, l := range d.listeners {
		if err := l.Start(runCtx); err != nil {
			for _, started := range d.listeners[:i] {
				started.Stop()
			}
			cancel()
			_ = d.lock.Unlock()
			return err
		}
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("mediadock daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the surfaces down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	for _, l := range d.listeners {
		l.Stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("mediadock daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
	for _, l := range d.listeners {
		status.Surfaces = append(status.Surfaces, SurfaceStatus{
			Name:    l.Name(),
			Bind:    l.Bind(),
			Address: l.Addr(),
		})
	}
	if stats, err := d.store.ImageStats(ctx); err == nil {
		status.Images = stats
	} else {
		d.logger.Warn("image stats unavailable", logging.Error(err))
	}
	return status
}
