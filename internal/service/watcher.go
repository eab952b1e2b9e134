package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events a single write produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls onChange after the watched file settles. It watches the
// parent directory so atomic renames and SQLite journal files are seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	base     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, debounce time.Duration, onChange func(ctx context.Context), logger Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:  watcher,
		dir:      filepath.Dir(path),
		base:     filepath.Base(path),
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.running = true
	w.logger.Infof("Watching %s for changes", filepath.Join(w.dir, w.base))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
// A watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Errorf("Watcher: error closing: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debugf("Watcher: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)

		case <-timer.C:
			w.onChange(ctx)
		}
	}
}

// relevant reports whether event touches the watched file or one of its
// SQLite companions (-wal, -journal).
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}
