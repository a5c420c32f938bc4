package handoff

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
)

// Trigger is invoked whenever a pending payload may have arrived
type Trigger func(ctx context.Context)

// WatcherConfig configures a Watcher
type WatcherConfig struct {
	Dir          string
	FileName     string
	PollInterval time.Duration
	// Watch enables filesystem notifications; the poll ticker always runs
	Watch   bool
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

// Watcher signals the extraction side when the capturing side publishes a payload.
// It fires once on start, on every poll tick, and on filesystem events for the payload file.
type Watcher struct {
	cfg     WatcherConfig
	trigger Trigger
	logger  *zap.Logger
}

// NewWatcher creates a watcher calling trigger on every signal
func NewWatcher(cfg WatcherConfig, trigger Trigger) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultPayloadFile
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		cfg:     cfg,
		trigger: trigger,
		logger:  logger.Named("watcher"),
	}
}

// Run blocks until ctx is cancelled. When filesystem notifications cannot be
// set up it keeps running on the poll ticker alone.
func (w *Watcher) Run(ctx context.Context) error {
	var events <-chan fsnotify.Event
	var errs <-chan error

	if w.cfg.Watch {
		fsw, err := w.startWatching()
		if err != nil {
			w.logger.Warn("file notifications unavailable, polling only",
				zap.Duration("poll_interval", w.cfg.PollInterval),
				zap.Error(err))
		} else {
			defer fsw.Close()
			events = fsw.Events
			errs = fsw.Errors
		}
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.fire(ctx, "start")

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			w.fire(ctx, "poll")

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(event.Name) != w.cfg.FileName {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				w.logger.Debug("payload file changed", zap.String("op", event.Op.String()))
				w.fire(ctx, "notify")
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) startWatching() (*fsnotify.Watcher, error) {
	if err := os.MkdirAll(w.cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create shared directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(w.cfg.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}

	w.logger.Info("watching shared directory", zap.String("dir", w.cfg.Dir), zap.String("file", w.cfg.FileName))
	return fsw, nil
}

func (w *Watcher) fire(ctx context.Context, source string) {
	w.cfg.Metrics.HandoffEvent("signal_" + source)
	w.trigger(ctx)
}
