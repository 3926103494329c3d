// Package daemon runs sitecomposer as a long-lived service: it watches the
// configuration and source directories, recomposes on change or schedule,
// publishes recompose events, and serves the composed documents plus status
// and metrics over an admin HTTP listener.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitecomposer/internal/compose"
	"git.home.luguber.info/inful/sitecomposer/internal/config"
	"git.home.luguber.info/inful/sitecomposer/internal/history"
	"git.home.luguber.info/inful/sitecomposer/internal/logfields"
	"git.home.luguber.info/inful/sitecomposer/internal/metrics"
)

// Daemon owns the continuous recomposition loop and its supporting services.
type Daemon struct {
	configPath string
	registry   *prom.Registry
	recorder   metrics.Recorder
	store      history.Store
	publisher  *Publisher
	scheduler  *Scheduler
	watcher    *Watcher
	httpServer *HTTPServer

	triggers chan string
	stopOnce sync.Once
	stopped  chan struct{}

	mu        sync.RWMutex
	cfg       *config.Config
	latest    *compose.Result
	lastRunID string
	lastRunAt time.Time
	runs      int
	startTime time.Time
}

// New assembles a daemon for the given loaded configuration. Optional
// services (history, NATS) come up only when configured.
func New(cfg *config.Config, configPath string) (*Daemon, error) {
	registry := prom.NewRegistry()
	d := &Daemon{
		configPath: configPath,
		cfg:        cfg,
		registry:   registry,
		recorder:   metrics.NewPrometheusRecorder(registry),
		triggers:   make(chan string, 16),
		stopped:    make(chan struct{}),
	}

	if cfg.History.Path != "" {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		d.store = store
	}

	if cfg.Daemon.NATS != nil {
		publisher, err := NewPublisher(cfg.Daemon.NATS)
		if err != nil {
			return nil, fmt.Errorf("connect event publisher: %w", err)
		}
		d.publisher = publisher
	}

	if interval := cfg.Daemon.ScheduleIntervalDuration(); interval > 0 {
		scheduler, err := NewScheduler(interval, func() { d.Trigger("schedule") })
		if err != nil {
			return nil, err
		}
		d.scheduler = scheduler
	}

	if cfg.Daemon.Watch {
		watcher, err := NewWatcher(watchPaths(cfg, configPath), func() { d.Trigger("watch") })
		if err != nil {
			return nil, fmt.Errorf("create source watcher: %w", err)
		}
		d.watcher = watcher
	}

	d.httpServer = NewHTTPServer(cfg.Daemon.Listen, d)
	return d, nil
}

// watchPaths collects every directory whose contents feed a composition.
func watchPaths(cfg *config.Config, configPath string) []string {
	paths := []string{configPath, cfg.LocalesDir}
	if cfg.DefaultsDir != "" {
		paths = append(paths, cfg.DefaultsDir)
	}
	if cfg.ContentDir != "" {
		paths = append(paths, cfg.ContentDir)
	}
	for _, m := range cfg.Mixins {
		paths = append(paths, m.LocalesDir)
	}
	return paths
}

// Start composes once, brings up the supporting services and then processes
// triggers until the context is canceled.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	d.startTime = time.Now()
	d.mu.Unlock()

	d.recompose(ctx, "startup")

	if d.watcher != nil {
		if err := d.watcher.Start(ctx); err != nil {
			return err
		}
	}
	if d.scheduler != nil {
		d.scheduler.Start()
	}
	if err := d.httpServer.Start(); err != nil {
		return err
	}

	slog.Info("Daemon started", slog.String("listen", d.cfg.Daemon.Listen))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.stopped:
			return nil
		case reason := <-d.triggers:
			d.recompose(ctx, reason)
		}
	}
}

// Stop shuts the supporting services down gracefully.
func (d *Daemon) Stop(ctx context.Context) error {
	var firstErr error
	d.stopOnce.Do(func() {
		close(d.stopped)
		if d.scheduler != nil {
			if err := d.scheduler.Stop(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if d.watcher != nil {
			d.watcher.Stop()
		}
		if err := d.httpServer.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		if d.publisher != nil {
			d.publisher.Close()
		}
		if d.store != nil {
			if err := d.store.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		slog.Info("Daemon stopped")
	})
	return firstErr
}

// Trigger requests a recomposition. Requests are dropped when one is already
// queued; the pending run picks up the latest state anyway.
func (d *Daemon) Trigger(reason string) {
	select {
	case d.triggers <- reason:
	default:
	}
}

// recompose reloads configuration and sources, recomposes every locale and
// distributes the result. Failures are logged, never fatal: the daemon keeps
// serving the previous composition.
func (d *Daemon) recompose(ctx context.Context, reason string) {
	runID := uuid.NewString()
	startedAt := time.Now()
	slog.Info("Recomposing", logfields.RunID(runID), logfields.Trigger(reason))

	cfg, err := config.Load(d.configPath)
	if err != nil {
		slog.Error("Configuration reload failed, keeping previous composition",
			logfields.RunID(runID), logfields.Error(err))
		return
	}

	site, err := config.LoadSite(cfg)
	if err != nil {
		slog.Error("Site documents failed to load, keeping previous composition",
			logfields.RunID(runID), logfields.Error(err))
		return
	}

	defaults, err := compose.LoadDefaults(cfg.DefaultsDir)
	if err != nil {
		slog.Error("Locale defaults failed to load, keeping previous composition",
			logfields.RunID(runID), logfields.Error(err))
		return
	}

	opts := []compose.Option{compose.WithDefaults(defaults), compose.WithRecorder(d.recorder)}
	if cfg.Composer.Warnings == "silent" {
		opts = append(opts, compose.WithSilentWarnings())
	}
	result := compose.New(site, opts...).Compose()

	if err := (compose.Writer{
		Directory: cfg.Output.Directory,
		Format:    cfg.Output.Format,
		Clean:     cfg.Output.Clean,
	}).Write(result); err != nil {
		slog.Error("Composed output write failed", logfields.RunID(runID), logfields.Error(err))
	}

	d.mu.Lock()
	previousHash := ""
	if d.latest != nil {
		previousHash = d.latest.Hash
	}
	d.cfg = cfg
	d.latest = result
	d.lastRunID = runID
	d.lastRunAt = startedAt
	d.runs++
	d.mu.Unlock()

	if d.store != nil {
		if err := d.store.Record(ctx, history.Run{
			ID:        runID,
			StartedAt: startedAt,
			Duration:  result.Duration,
			Locales:   len(result.Locales),
			Warnings:  len(result.Warnings),
			Hash:      result.Hash,
			Trigger:   reason,
		}); err != nil {
			slog.Error("History record failed", logfields.RunID(runID), logfields.Error(err))
		}
	}

	if d.publisher != nil && result.Hash != previousHash {
		if err := d.publisher.PublishRecomposed(ctx, RecomposeEvent{
			RunID:    runID,
			Hash:     result.Hash,
			Locales:  len(result.Locales),
			Warnings: len(result.Warnings),
			Trigger:  reason,
		}); err != nil {
			slog.Error("Recompose event publish failed", logfields.RunID(runID), logfields.Error(err))
		}
	}
}

// Latest returns the most recent composition result, or nil before the first
// run completes.
func (d *Daemon) Latest() *compose.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest
}

// Registry exposes the daemon's metrics registry for the admin listener.
func (d *Daemon) Registry() *prom.Registry { return d.registry }
