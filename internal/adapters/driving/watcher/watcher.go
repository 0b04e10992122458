// Package watcher reloads the catalog when its source file changes on disk.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
	"github.com/custodia-labs/intentmatch/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Reload reports the outcome of one reload attempt.
type Reload struct {
	Catalog *domain.Catalog
	Err     error
}

// Watcher reloads a catalog file through the catalog service on change.
type Watcher struct {
	catalogs driving.CatalogService
	path     string
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for path.
func New(catalogs driving.CatalogService, path string, opts ...Option) (*Watcher, error) {
	if catalogs == nil {
		return nil, errors.New("watcher: catalog service not configured")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve %s: %w", path, err)
	}
	w := &Watcher{catalogs: catalogs, path: abs, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Watch starts watching and returns a channel of reload outcomes.
// The parent directory is watched so that editors which replace the file
// (write to temp, then rename) are still seen. The channel closes when ctx
// is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan Reload, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watcher: watch %s: %w", filepath.Dir(w.path), err)
	}

	out := make(chan Reload, 1)
	go w.loop(ctx, fw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- Reload) {
	defer close(out)
	defer fw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("catalog file event: %s", event)
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("catalog watcher error: %v", err)

		case <-timer.C:
			pending = false
			catalog, err := w.catalogs.Load(ctx, w.path)
			if err != nil {
				logger.Warn("catalog reload failed: %v", err)
			} else {
				logger.Info("catalog reloaded: %d products", catalog.Len())
			}
			select {
			case out <- Reload{Catalog: catalog, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}
