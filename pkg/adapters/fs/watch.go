package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher re-runs an operation whenever one of a set of local files changes.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the local files among locations.
// URLs are ignored. The parent directories are watched so that editors
// replacing files by rename are noticed.
func NewWatcher(locations []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Watcher{
		files:    make(map[string]bool),
		logger:   logger,
		debounce: DefaultDebounce,
	}
	seenDirs := make(map[string]bool)
	for _, loc := range locations {
		if loc == "" || IsURL(loc) {
			continue
		}
		abs, err := filepath.Abs(LocalPath(loc))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", loc, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if !seenDirs[dir] {
			seenDirs[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.files) == 0 {
		return nil, fmt.Errorf("nothing to watch: no local input files")
	}
	return w, nil
}

// Files returns the number of watched files.
func (w *Watcher) Files() int { return len(w.files) }

// Run calls fn after every change until ctx is done. Errors returned by fn
// are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		err := w.loop(ctx, watcher, fn)
		finish(err)
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("watch loop failed", "error", err)
		finish(err)
	}))

	w.logger.Info("watching for changes", "files", len(w.files))
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher, fn func(ctx context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("run failed", "error", err)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", werr)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
