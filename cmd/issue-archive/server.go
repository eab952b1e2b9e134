package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vilaca/issue-archive/internal/api"
	"github.com/vilaca/issue-archive/internal/config"
	"github.com/vilaca/issue-archive/internal/dashboard"
	"github.com/vilaca/issue-archive/internal/service"
	"github.com/vilaca/issue-archive/internal/store"
)

// staleIssuesTTL is how long cached issues may stand in for a failed fetch.
const staleIssuesTTL = 24 * time.Hour

// server bundles the HTTP server with its background workers.
type server struct {
	httpServer *http.Server
	issues     *service.IssueService
	refresher  *service.Refresher
	watcher    *service.Watcher
	db         *store.Store
}

// buildServer wires up all dependencies.
// This is the composition root where all dependencies are created and injected.
// Follows SOLID principles and IoC (Inversion of Control).
func buildServer(ctx context.Context, cfg *config.Config) (*server, error) {
	s := &server{}

	var (
		loader    service.IssueLoader
		watchPath string
	)
	if dataPath != "" {
		loader = service.NewSnapshotFile(dataPath, logger)
		watchPath = dataPath
	} else {
		db, err := store.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		s.db = db
		loader = db
		watchPath = db.Path()
	}

	s.issues = service.NewIssueService(loader, logger)
	if err := s.issues.Reload(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("initial load: %w", err)
	}

	watcher, err := service.NewWatcher(watchPath, service.DefaultDebounce, func(ctx context.Context) {
		if err := s.issues.Reload(ctx); err != nil {
			logger.Errorf("Reload after change failed: %v", err)
		}
	}, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.watcher = watcher

	if s.db != nil && !noSync {
		interval := time.Duration(cfg.Server.RefreshMinutes) * time.Minute
		client := api.NewCachingClient(newIssueClient(cfg), logger, interval/2, staleIssuesTTL)
		syncService := service.NewSyncService(client, s.db, cfg.Repositories(), logger)
		s.refresher = service.NewRefresher(syncService, s.issues, interval, logger)
	}

	handler := dashboard.NewHandler(dashboard.NewHTMLRenderer(), logger, s.issues)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// ListenAndServe starts the workers and serves until ctx is cancelled.
func (s *server) ListenAndServe(ctx context.Context) error {
	if err := s.watcher.Start(ctx); err != nil {
		logger.Warnf("File watching disabled: %v", err)
	}
	if s.refresher != nil {
		s.refresher.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting Issue Archive on http://localhost%s (%d issues)", s.httpServer.Addr, len(s.issues.Issues()))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Infof("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Close stops the workers and releases the database.
func (s *server) Close() error {
	if s.refresher != nil {
		s.refresher.Stop()
	}
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
