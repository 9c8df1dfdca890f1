package config

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads the config file on change and hands the result to the
// apply callback. Edits are debounced; a reload that fails validation is
// logged and skipped, keeping the previous config live.
type Watcher struct {
	loader *Loader
	path   string
	apply  func(Config)
	logger *zap.Logger
}

func NewWatcher(loader *Loader, path string, apply func(Config), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		loader: loader,
		path:   path,
		apply:  apply,
		logger: logger.Named("config_watcher"),
	}
}

// Run blocks until the context is canceled. It is a no-op when no config
// path was given.
func (w *Watcher) Run(ctx context.Context) {
	if w.path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("config watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.path); err != nil {
		w.logger.Warn("config watcher add failed", zap.String("path", w.path), zap.Error(err))
		return
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-watcher.Errors:
			if err != nil {
				w.logger.Warn("config watcher error", zap.Error(err))
			}
		case event := <-watcher.Events:
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(reloadDebounce)
		case <-timerChan(timer):
			timer = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.loader.Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("config reloaded", zap.String("path", w.path))
	w.apply(cfg)
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
