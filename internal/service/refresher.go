package service

import (
	"context"
	"sync"
	"time"
)

// Syncer runs one sync of all repositories.
type Syncer interface {
	SyncAll(ctx context.Context) (*SyncResult, error)
}

// Reloader refreshes the in-memory snapshot.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Refresher periodically syncs from GitHub and reloads the snapshot.
// Follows Single Responsibility Principle - only handles background refreshing.
type Refresher struct {
	syncer          Syncer
	reloader        Reloader
	refreshInterval time.Duration
	initialDelay    time.Duration
	logger          Logger
	stopChan        chan struct{}
	wg              sync.WaitGroup
	mu              sync.Mutex
	running         bool
}

// NewRefresher creates a new background refresher.
// Follows Dependency Injection - accepts dependencies via constructor.
func NewRefresher(syncer Syncer, reloader Reloader, refreshInterval time.Duration, logger Logger) *Refresher {
	return &Refresher{
		syncer:          syncer,
		reloader:        reloader,
		refreshInterval: refreshInterval,
		initialDelay:    2 * time.Second,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start begins periodic background refreshing.
// Non-blocking - launches goroutine and returns immediately.
func (r *Refresher) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.logger.Infof("Background refresher: Starting with %v interval", r.refreshInterval)

	r.wg.Add(1)
	go r.refreshLoop()
}

// Stop gracefully stops the background refresher.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.logger.Infof("Background refresher: Stopping...")
	close(r.stopChan)
	r.wg.Wait()
	r.logger.Infof("Background refresher: Stopped")
}

// refreshLoop performs an initial refresh after a short delay, then one per interval.
func (r *Refresher) refreshLoop() {
	defer r.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-r.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	select {
	case <-time.After(r.initialDelay):
	case <-r.stopChan:
		return
	}
	r.refresh(ctx)

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.stopChan:
			return
		}
	}
}

// refresh syncs every repository and reloads the snapshot.
func (r *Refresher) refresh(ctx context.Context) {
	result, err := r.syncer.SyncAll(ctx)
	if err != nil {
		r.logger.Warnf("Background refresher: sync interrupted: %v", err)
		return
	}
	if failed := result.Failed(); len(failed) > 0 {
		r.logger.Warnf("Background refresher: %d of %d repositories failed", len(failed), len(result.Repos))
	}

	if err := r.reloader.Reload(ctx); err != nil {
		r.logger.Errorf("Background refresher: reload failed: %v", err)
		return
	}
	r.logger.Infof("Background refresher: synced %d issues in %v", result.Total(), result.Duration.Round(time.Millisecond))
}
