// Package watch reloads the configured workbook into the snapshot cache when
// it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexanderramin/harborguide/internal/domain"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 500 * time.Millisecond

// Loader reads a workbook into the cache.
type Loader interface {
	LoadWorkbook(ctx context.Context, path string) (*domain.Snapshot, error)
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// Watcher watches the workbook's directory, since editors replace files by
// rename, and reloads once events for the workbook settle.
type Watcher struct {
	path     string
	loader   Loader
	debounce time.Duration
	logger   *slog.Logger

	reloads  atomic.Int64
	failures atomic.Int64
}

func New(path string, loader Loader, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		loader:   loader,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "watch", "path", w.path)
	return w
}

// Reloads is the number of successful reloads so far.
func (w *Watcher) Reloads() int64 { return w.reloads.Load() }

// Failures is the number of reloads that returned an error.
func (w *Watcher) Failures() int64 { return w.failures.Load() }

// Run blocks until ctx is cancelled. It returns an error only when the watch
// cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Info("watching workbook", "debounce_ms", w.debounce.Milliseconds())

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("workbook event", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// reload keeps the previous snapshot when the new file cannot be read.
func (w *Watcher) reload(ctx context.Context) {
	snap, err := w.loader.LoadWorkbook(ctx, w.path)
	if err != nil {
		w.failures.Add(1)
		w.logger.Warn("workbook reload failed", "error", err)
		return
	}
	w.reloads.Add(1)
	w.logger.Info("workbook reloaded", "sheets", len(snap.Blocks), "rows", snap.RowCount())
}
