package service

import (
	"context"
	"sync"
	"time"

	"github.com/vilaca/issue-archive/internal/domain"
)

// IssueLoader is a source of the full issue list.
// Both store.Store and SnapshotFile implement it.
type IssueLoader interface {
	ListIssues(ctx context.Context) ([]domain.Issue, error)
}

// IssueService holds the issue snapshot the views render from.
// The slice is replaced wholesale on Reload and never mutated, so readers
// can keep using a slice they already got.
type IssueService struct {
	loader IssueLoader
	logger Logger

	mu       sync.RWMutex
	issues   []domain.Issue
	loadedAt time.Time
}

// NewIssueService creates an issue service with an empty snapshot.
func NewIssueService(loader IssueLoader, logger Logger) *IssueService {
	return &IssueService{
		loader: loader,
		logger: logger,
	}
}

// Reload replaces the snapshot with a fresh load. On error the previous
// snapshot is kept.
func (s *IssueService) Reload(ctx context.Context) error {
	issues, err := s.loader.ListIssues(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.issues = issues
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Infof("Loaded %d issues", len(issues))
	return nil
}

// Issues returns the current snapshot.
func (s *IssueService) Issues() []domain.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issues
}

// LoadedAt returns when the snapshot was last loaded, zero before the first load.
func (s *IssueService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
