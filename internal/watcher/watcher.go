// Package watcher re-runs ingestion when the watched document changes
// on disk. Editors often save in bursts (write to a temp file, rename
// over the original), so events are debounced and re-ingestions run
// one at a time.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// DefaultDebounce is how long the file must stay quiet before a change
// triggers re-ingestion.
const DefaultDebounce = 500 * time.Millisecond

// OnChange is invoked after the watched file settles. A returned error
// is reported and the watch continues.
type OnChange func(ctx context.Context) error

// Watcher watches a single document file.
type Watcher struct {
	path     string
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for the document at path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Path returns the watched file path.
func (w *Watcher) Path() string { return w.path }

// Watch blocks, invoking onChange each time the file settles after a
// change, until the context is cancelled or Stop is called. The parent
// directory is watched rather than the file itself: editors that
// replace the file on save would otherwise detach the watch.
func (w *Watcher) Watch(ctx context.Context, onChange OnChange) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck // Close error on shutdown is not actionable

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("Watching %s", w.path)

	// The timer starts drained; each relevant event rearms it.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Change detected: %s (%s)", event.Name, event.Op)
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		case <-timer.C:
			// onChange runs inline, so re-ingestions never overlap;
			// events arriving meanwhile queue in the fsnotify channel.
			if err := onChange(ctx); err != nil {
				logger.Warn("Re-ingestion failed: %v", err)
			}
		}
	}
}

// Stop ends the watch loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

// relevant reports whether the event is a content change of the
// watched file. Chmod-only events are noise.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}
