package tree

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a preset file whenever it changes on disk. The parent
// directory is watched so editors that replace the file atomically are seen.
type Watcher struct {
	path   string
	fsw    *fsnotify.Watcher
	logger *slog.Logger
}

// NewWatcher starts watching path. The caller must call Run or Close.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{path: abs, fsw: fsw, logger: logger}, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run calls fn with every successfully reloaded preset until ctx is done.
// Files that fail to load are logged and skipped. Run closes the watcher.
func (w *Watcher) Run(ctx context.Context, fn func(Config)) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("preset watcher error", "path", w.path, "err", err)
		case <-fire:
			fire = nil
			cfg, err := LoadPreset(w.path)
			if err != nil {
				w.logger.Warn("preset reload failed", "path", w.path, "err", err)
				continue
			}
			w.logger.Info("preset reloaded", "path", w.path, "name", cfg.Name)
			fn(cfg)
		}
	}
}

// Watch runs a Watcher for path until ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func(Config)) error {
	w, err := NewWatcher(path, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}
